package annoor_test

import (
	"context"
	"fmt"
	"log"

	annoor "github.com/An-Noor-Team/An-Noor-Store"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/adapters/memory"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/domain"
)

// ExampleNew shows a cart walking through the basic actions and a delivery quote.
func ExampleNew() {
	shop, err := annoor.New(annoor.WithStore(memory.NewStore()))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	id := domain.StorageKey

	// 1. Two units of one watch, one of another.
	if _, err := shop.AddProduct(ctx, id, "watch-arabic-black", 2); err != nil {
		log.Fatal(err)
	}
	if _, err := shop.AddProduct(ctx, id, "aura-black", 1); err != nil {
		log.Fatal(err)
	}

	// 2. Price it for both zones.
	for _, zone := range []domain.Zone{domain.ZoneInside, domain.ZoneOutside} {
		totals, err := shop.Quote(ctx, id, zone)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%s: %s + %s = %s\n", zone.Label(),
			domain.FormatAmount(totals.Subtotal),
			domain.FormatAmount(totals.DeliveryFee),
			domain.FormatAmount(totals.Total))
	}

	// 3. A zero quantity is clamped to one.
	cart, err := shop.SetQty(ctx, id, "watch-arabic-black", 0)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("units:", cart.ItemCount())

	// Output:
	// Inside Dhaka: ৳2497 + ৳70 = ৳2567
	// Outside Dhaka: ৳2497 + ৳130 = ৳2627
	// units: 2
}
