package main

import (
	"errors"
	"fmt"

	"github.com/dailyyoga/productcache/cache"
	"github.com/tidwall/gjson"
)

var errNotProductList = errors.New("productcache: input is not a JSON array of products")

// parseProducts reads a product list in the upstream catalog shape:
//
//	[{"id":1,"title":"...","price":109.95,"description":"...","category":"...",
//	  "image":"...","rating":{"rate":3.9,"count":120}}]
func parseProducts(data []byte) ([]cache.Product, error) {
	if !gjson.ValidBytes(data) {
		return nil, errNotProductList
	}
	list := gjson.ParseBytes(data)
	if !list.IsArray() {
		return nil, errNotProductList
	}

	var (
		products []cache.Product
		err      error
	)
	list.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() || !item.Get("id").Exists() {
			err = fmt.Errorf("productcache: product %d: missing id", len(products))
			return false
		}
		products = append(products, cache.Product{
			ID:          item.Get("id").Int(),
			Title:       item.Get("title").String(),
			Price:       item.Get("price").Float(),
			Description: item.Get("description").String(),
			Category:    item.Get("category").String(),
			Image:       item.Get("image").String(),
			Rating: cache.Rating{
				Rate:  item.Get("rating.rate").Float(),
				Count: int(item.Get("rating.count").Int()),
			},
		})
		return true
	})
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []cache.Product{}
	}
	return products, nil
}
