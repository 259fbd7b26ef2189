/*
Package hottopoteto is a declarative recipe execution engine. A recipe is an
ordered list of typed steps ("links") run against a shared, append-only
context; steps consume earlier outputs through {{ ... }} template expressions
and declare schemas that validate what they produce.

The simplest use reads recipes from a directory and runs one by name:

	eng, err := hottopoteto.New("./recipes")
	if err != nil {
		log.Fatal(err)
	}
	result, err := eng.Run(ctx, "greet", map[string]any{"who": "Ada"})

Custom link handlers, functions and schemas register before the first run:

	eng.RegisterHandler("llm.chat", myHandler)
	eng.RegisterFunction("lookup", myFunc)
	eng.RegisterSchema("person", personSchema)

Subpackages expose the engine's building blocks for embedding: pkg/template
(expression resolution), pkg/schema (schema composition and validation),
pkg/registry (handler dispatch), and pkg/adapters (recipe and entry storage
backends).
*/
package hottopoteto
