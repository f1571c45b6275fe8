// Package rest is a JSON client on top of the httpclient dispatcher.
//
// Every request is created as an enqueue-style Call and awaited with
// call.Execute, so a caller whose context ends cancels the request in
// flight:
//
//	client, err := rest.New(httpclient.Config{
//	    BaseURL: "https://api.example.com",
//	    Auth:    httpclient.BearerAuth("token"),
//	})
//	defer client.Close(ctx)
//
//	user, err := rest.Get[User](ctx, client, "/users/123")
//	created, err := rest.Post[User](ctx, client, "/users", CreateUserRequest{Name: "Alice"})
//
// Non-2xx responses return the classified *httpclient.Error together with
// the decoded body when it is valid JSON.
package rest
