// Package mapping turns footage paths into output path templates.
//
// A Rule pairs an input pattern with an output template. Input patterns are
// literal paths in which `{NAME}` placeholders capture any non-empty run of
// characters; the captured values are substituted into the same placeholders
// in the output template. The `{SHOT}` placeholder is left in the template for
// the plan builder to fill per shot.
//
// Rules are evaluated in table order and the first matching rule wins.
package mapping
