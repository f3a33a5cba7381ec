/*
Package checkout turns a cart and a completed checkout form into an order
record and hands it to a delivery channel.

Checkout never mutates the cart. A successful submission leaves the cart as it
was; a failed one leaves both cart and form intact so the shopper can retry.
*/
package checkout
