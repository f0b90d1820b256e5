// Package ilkit edits stack-machine method bodies and relinks the metadata
// they reference from one module graph into another.
//
// # Architecture Overview
//
// The library is organized into packages with distinct responsibilities:
//
//	ilkit/
//	├── il/        Opcodes, operands, instructions, bodies, regions and the
//	│              reference graph; offset fix-ups and the image codec
//	├── edit/      Label-based edit sessions and cursors over a body
//	├── relink/    Structural relinking of references between module graphs
//	├── emit/      Generator contract with body, binary and text backends
//	└── errors/    Structured error types with phase and kind
//
// # Quick Start
//
// Insert a call in front of every return, taking over branches to it:
//
//	err := edit.Apply(body, edit.Config{}, func(ctx *edit.Context) error {
//		c := edit.NewCursor(ctx)
//		for c.TryGotoNext(edit.AfterLabel, il.OpIs(il.Ret)) {
//			c.Emit(il.Call, hook)
//			c.SetSearchTarget(edit.SearchNext)
//		}
//		return nil
//	})
//
// Copy a body into another module, relinking its operands:
//
//	r := relink.New(relink.Config{Resolver: relink.ImportResolver(dest)})
//	copied := il.CloneBody(src.Body, target)
//	if err := r.Body(copied, target); err != nil {
//		log.Fatal(err)
//	}
//
// # Logging
//
// The edit, relink and emit packages log through zap. They are silent by
// default; call their SetLogger, or pass Config.Logger, to enable output.
//
// # Errors
//
// Every failure is an *errors.Error carrying a Phase and a Kind. Use
// errors.Is against the sentinels (errors.ErrSearchNotFound,
// errors.ErrUnresolvedLabel, ...) to branch on the kind.
package ilkit
