package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// NewID returns a fresh 24-char hex identifier. Every store uses the same
// format so invoice numbers and client-side validation behave identically.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// IsID reports whether s looks like an identifier produced by NewID.
func IsID(s string) bool {
	_, err := primitive.ObjectIDFromHex(s)
	return err == nil
}
