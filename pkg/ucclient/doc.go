// Package ucclient provides the primary entry point for constructing a
// catalog API client that implements the uc.Client interface.
//
// It turns a uc.Config into transport settings, builds one shared HTTP client
// from them and hands it to the token manager and every resource client.
// Most applications import ucclient to build a client, then use the returned
// uc.Client to reach Catalogs(), Schemas(), Tables() and the other resources.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/uc-client/pkg/uc"
//	  "github.com/fivetwenty-io/uc-client/pkg/ucclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  cli, err := ucclient.New(ctx, &uc.Config{
//	    Endpoint: "https://uc.example.com",
//	    Token:    "dapi...",
//	    ClientOptions: map[string]string{
//	      "timeout":   "2 minutes",
//	      "proxy_url": "http://proxy.internal:3128",
//	    },
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  for catalog, err := range cli.Catalogs().List(ctx, 50) {
//	    if err != nil { log.Fatal(err) }
//	    log.Println(catalog.Name)
//	  }
//	}
//
// # Client options
//
// Config.ClientOptions accepts the names listed by
// cloudclient.AllClientConfigKeys. Values are parsed when the client is
// built, so an invalid value fails New rather than the first request.
// Plain http:// endpoints additionally need "allow_http" set to true.
//
// # Helpers
//
// NewWithEndpoint, NewWithToken and NewWithClientCredentials wrap New with
// the matching configuration.
package ucclient
