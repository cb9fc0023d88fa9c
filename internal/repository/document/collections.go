// Package document implements the domain repositories on top of a
// docstore.Store.
package document

const (
	usersCollection        = "users"
	dailyStatusCollection  = "daily_status"
	productsCollection     = "products"
	userProductsCollection = "user_products"
)
