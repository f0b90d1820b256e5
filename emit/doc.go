// Package emit generates code through a backend-neutral Generator.
//
// Three backends implement the contract:
//
//   - BodyGenerator inserts into a method body through an edit cursor.
//     Labels and regions resolve when the edit session finishes.
//   - BinaryGenerator assembles an *il.Image directly, patching branch
//     displacements as labels are marked.
//   - TextGenerator writes a listing, styled with lipgloss on terminals.
//
// Exception blocks follow the begin/end protocol of RegionBuilder, which
// every backend embeds:
//
//	skip, _ := g.BeginExceptionBlock()
//	g.Emit(il.Call, risky)
//	g.BeginCatchBlock(exceptionType)
//	g.Emit(il.Pop, nil)
//	g.EndExceptionBlock() // skip is marked here
//
// Operands outside the closed il.Operand set, raw instruction targets and
// operands that do not fit the opcode fail with an unemittable-operand
// error; nothing is emitted for them.
package emit
