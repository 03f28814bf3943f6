// Package palette describes line and background colours and samples them.
//
// A [Palette] is one of three shapes:
//
//   - [Solid]: a colour name or hex string, the same at every fraction.
//   - [Tuple]: an explicit RGB triple, the same at every fraction.
//   - [Gradient]: an ordered list of [Entry] values, each a [Hex] string or
//     a [Normalized] float triple.
//
// A [Sampler] maps a fraction of the drawing to a colour. Gradients pick
// the entry at round(len*f), clamped to the list. Broken entries are
// logged at critical level and drawn white.
//
// Flavours reorder a base list into a path list and a caption list, see
// [Reflow]. Built-in cyclic gradients are listed by [Names].
package palette
