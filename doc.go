/*
Package annoor is the storefront core of An Noor Store: a small catalog of
watches, a per-session shopping cart and a checkout that hands orders to a
delivery channel.

# Concept

The cart is a deterministic state machine. Every change is an Action (INIT,
ADD, QTY, REMOVE, CLEAR) applied by a pure reducer, and the resulting cart is
persisted as a JSON snapshot after each transition. Pricing is derived, never
stored: subtotal from the lines, delivery fee from the shipping zone.

The Shop type wires the pieces together. Storage, locking and order delivery
are ports, so the same Shop runs in a CLI, behind the HTTP API or as an MCP
tool server.

# Usage

	shop, err := annoor.New(
		annoor.WithStore(file.New("")),
		annoor.WithSubmitter(console.New(os.Stdout)),
	)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	cart, err := shop.AddProduct(ctx, domain.StorageKey, "aura-black", 1)
	if err != nil {
		log.Fatal(err)
	}

	totals, _ := shop.Quote(ctx, domain.StorageKey, domain.ZoneInside)
	fmt.Println(len(cart), domain.FormatAmount(totals.Total))

# Persistence

Snapshots go to a ports.SnapshotStore (memory, file or redis). Storage
failures never break the cart: the session manager keeps working from memory
and reports the failure through LifecycleHooks.
*/
package annoor
