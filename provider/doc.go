// Package provider implements a generic registry for swappable backends.
//
// Backends register a named factory taking their typed configuration; callers
// create instances by name and may cache them in the registry.
//
// # Usage
//
//	reg := provider.NewRegistry[MyProvider, MyConfig]()
//	reg.RegisterFactory("default", myFactory)
//	p, err := reg.Create("default", cfg)
package provider
