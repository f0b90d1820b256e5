// Package edit provides label-based editing sessions over method bodies.
//
// A Context wraps every branch target of a body in an *il.Label for the
// duration of Invoke. A Cursor then inserts, removes and searches freely;
// branches follow their labels rather than raw instructions, and labels
// and exception-region boundaries are retargeted as the stream changes.
// When the manipulator returns, labels are unwrapped, queued regions are
// added, the body is validated and branch widths are recomputed.
//
//	err := edit.Apply(body, edit.Config{}, func(ctx *edit.Context) error {
//		c := edit.NewCursor(ctx)
//		if err := c.GotoNext(edit.Before, il.OpIs(il.Ret)); err != nil {
//			return err
//		}
//		c.Emit(il.Ldstr, il.String("done")).Emit(il.Pop, nil)
//		return nil
//	})
//
// Insertion placement follows the cursor's MoveType. Before keeps labels
// on the instruction after the cursor; AfterLabel moves them onto the
// first inserted instruction; After places the cursor behind an
// instruction.
package edit
