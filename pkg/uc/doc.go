// Package uc is the public API of the catalog client.
//
// It defines the resource client interfaces returned by ucclient.New, the
// resource types they exchange, the lazy pagination engine behind every List
// call, API errors and the optional response cache.
//
// Listings are exposed as range-over-func sequences that fetch one page at a
// time as they are consumed:
//
//	for catalog, err := range client.Catalogs().List(ctx, 0) {
//		if err != nil {
//			return err
//		}
//		fmt.Println(catalog.Name)
//	}
package uc
