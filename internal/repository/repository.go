// Package repository holds the server-side cart slots used when the cart is
// not kept in the browser cookie. Both implementations satisfy cart.Repository.
package repository

import "fmt"

// cartKey is the redis key of a session's cart.
func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}
