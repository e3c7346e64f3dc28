// Package authsdk is a small Go client for the Gatehouse authentication
// service, plus the wire types and error values the service itself uses to
// shape its responses. Keeping both halves in one package guarantees the
// client and server never drift apart on the JSON contract.
package authsdk
