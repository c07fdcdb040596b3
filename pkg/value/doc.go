// Package value models arbitrary nested record data as a closed tagged variant.
//
// A [Value] is exactly one of Null, Primitive (string, number or boolean), Array or
// Object. Objects keep their members in the order they were decoded, so layout code
// that stacks entries vertically sees the same order the author wrote.
//
// # Classification
//
// [Classify] returns the structural kind of a value. [IsImageRef] is the second,
// independent predicate that decides whether a string primitive refers to an image,
// either because its key names an image-like field or because it ends in an image
// file extension:
//
//	value.IsImageRef("thumbnail", "https://picsum.photos/id/237/200/200") // true
//	value.IsImageRef("", "cat.PNG")                                     // true
//	value.IsImageRef("name", "John Doe")                                // false
//
// # Decoding
//
// [Decode] and [Parse] read JSON while preserving object key order. [FromAny] converts
// already-decoded Go values (maps are ordered by key, since Go maps have no order).
package value
