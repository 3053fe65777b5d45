// Package header provides low-level and high-level tooling for dealing with
// MIME headers. If you need low-level access, you want to deal with methods
// that work with field.Field objects. However, it is generally expected that
// devs will prefer the high-level methods, which parse structured values such
// as Content-Type and Transfer-Encoding on demand and keep the parsed form on
// the field it came from.
//
// The provided Parse() method will parse up headers in a flexible way that is
// built on top of field.Parse().
package header
