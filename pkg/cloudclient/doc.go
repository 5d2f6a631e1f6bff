// Package cloudclient builds HTTP clients for talking to cloud services.
//
// Options are collected in an immutable ClientOptions value, either through
// typed setters or from strings keyed by ClientConfigKey, and turned into a
// shared *http.Client with ClientOptions.Client:
//
//	opts, err := cloudclient.NewClientOptions().WithConfigMap(map[string]string{
//		"timeout":   "90 seconds",
//		"proxy_url": "https://proxy.internal:3128",
//	})
//	if err != nil {
//		return err
//	}
//
//	client, err := opts.Client()
//
// Values set from strings are validated when the client is built, not when
// they are set.
package cloudclient
