// Package subuser provides a Go client for the SendGrid v2 subuser API.
//
// The client manages subuser accounts of a parent SendGrid account: profiles,
// apps, event notifications, the address whitelist, statistics, credit
// limits and suppression lists. It also reconciles a set of addresses against
// the bounce, spam report and invalid email lists and can clear them.
//
// Basic usage:
//
//	client, err := subuser.New("api-user", "api-key")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Find out why mail to these addresses is not delivered
//	report, err := client.Suppressions(ctx, "my-subuser",
//	    subuser.Many("a@example.com", "b@example.com"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for email, reason := range report.Bounces {
//	    fmt.Println(email, reason)
//	}
package subuser
