/*
Package hydroplant bridges a wallet, the HydrationPlant contract and a plant-growth view.

The contract exposes three methods: water() increments a per-account counter,
getWaterCount(address) returns it and stageOf(address) returns the growth
stage. hydroplant reconciles the asynchronous and fallible pieces around them
(wallet presence, account authorization, transaction confirmation and contract
reads) into a small consistent view that a presentation adapter renders.

# Concept

An App owns one wallet session. The host ("Presentation Adapter") sends two
intents, Connect and Water, and receives discrete updates through
ports.Presenter: the connected account, the busy indicator, the latest
snapshot, stage changes and the bloom milestone. User-visible failures go
through ports.Notifier; everything else is only logged.

# Key Features

  - Silent reconnect: Start reuses an already-authorized account without prompting.
  - Lazy authentication: Water connects first when there is no session.
  - Consistent snapshots: both reads succeed or the previous snapshot is kept.
  - Clamped stage: the display never exceeds domain.MaxStage, whatever the contract reports.

# Usage

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
	app.Start(ctx)
	if err := app.Water(ctx); err != nil {
		log.Println(err)
	}
	snap, _ := app.Snapshot()
	fmt.Println(snap.WaterCount, snap.Stage)
*/
package hydroplant
