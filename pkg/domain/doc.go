/*
Package domain contains the core model of the storefront: the cart state machine,
the snapshot codec, the delivery pricing rules and the order record handed to the
submission channel.

The package is kept pure and free of I/O. Every cart transition is a function of
(cart, action) returning a new cart; persistence, locking and delivery live in the
adapters that wrap it.

# Key Entities

  - LineItem / Cart: the ordered list of products a session intends to buy.
  - Action: one of INIT, ADD, QTY, REMOVE, CLEAR, applied with Apply.
  - Zone / Tariffs / OrderTotals: delivery zone selection and the derived totals.
  - Order: the flattened, statically shaped record submitted at checkout.
*/
package domain
