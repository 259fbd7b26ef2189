/*
Package compiler turns raw recipe documents into validated, fully composed
domain.Recipe values.

Compilation runs three phases: parse (YAML or JSON into the recipe shape),
compose (resolve extends and includes through the RecipeLoader, with cycle
detection), and validate (structural checks collected into one
RecipeValidationError).
*/
package compiler
