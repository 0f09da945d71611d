package hydroplant_test

import (
	"context"
	"fmt"
	"log"

	"github.com/ethereum/go-ethereum/common"

	"github.com/aretw0/hydroplant"
	"github.com/aretw0/hydroplant/pkg/adapters/memory"
	"github.com/aretw0/hydroplant/pkg/contract"
	"github.com/aretw0/hydroplant/pkg/ports"
)

// ExampleNew_memory waters a plant on the in-process simulated chain.
func ExampleNew_memory() {
	account := common.HexToAddress("0x0000000000000000000000000000000000001234")
	chain := memory.NewChain(contract.DefaultAddress)
	wallet := memory.NewWallet(chain, account)

	app, err := hydroplant.New(
		func(ctx context.Context) (ports.Wallet, error) { return wallet, nil },
		contract.Binder(chain.Address(), chain),
	)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	fmt.Println("silent connect:", app.Start(ctx))

	for i := 0; i < 4; i++ {
		if err := app.Water(ctx); err != nil {
			log.Fatal(err)
		}
	}

	snap, _ := app.Snapshot()
	fmt.Println("account:", app.View().State().Account)
	fmt.Println("water count:", snap.WaterCount)
	fmt.Println("stage:", snap.Stage)

	// Output:
	// silent connect: false
	// account: 0x0000...1234
	// water count: 4
	// stage: 1
}
