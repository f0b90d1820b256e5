// Package relink rewrites metadata references so they are valid in another
// reference graph.
//
// Composite types (byref, pointer, array, modifiers, generic instances,
// function pointers) are decomposed and rebuilt; generic parameters bind
// by owner kind and position through the context's owner chain; leaf
// references go to a caller-supplied Resolver. Methods are rebuilt against
// their relinked declaring type before being resolved, so a Resolver only
// ever sees references whose components already live in the destination.
//
//	r := relink.New(relink.Config{
//		Resolver: relink.ImportResolver(dest),
//		Cache:    relink.NewCache(),
//	})
//	m, err := r.Method(src, nil)
//
// A Relinker is safe for concurrent use when its Resolver is. The Cache
// may be shared between relinkers.
package relink
