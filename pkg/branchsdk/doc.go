// Package branchsdk embeds the checkout-and-build services in other
// Go programs: manage the saved repository list, inspect the target
// directory, and run the clone/checkout/build pipeline on a background
// worker while consuming its progress events.
//
// Typical use:
//
//	client, err := branchsdk.New(branchsdk.Config{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	if err := client.StartRun(ctx, branchsdk.RunRequest{
//		RepoURL: "drexjj/sbitx",
//		Branch:  "main",
//	}); err != nil {
//		log.Fatal(err)
//	}
//	for ev := range client.Events() {
//		fmt.Println(ev.Message)
//		if ev.Terminal() {
//			break
//		}
//	}
package branchsdk
