/*
Package schema resolves and enforces step output schemas.

Schemas are plain maps in a JSON-Schema-like dialect (type, properties,
required, items, enum, bounds). Two composition forms are expanded by Resolve
before any validation happens:

  - {"$ref": "name"} substitutes a schema registered under that name.
  - {"base": "name", "properties": ..., "required": ...} deep-merges the local
    definition over the named base; required lists union.

A resolved schema may carry "_validate_against": "name", which requests a
second validation pass against the named schema after the primary one.

Validation never stops at the first problem: every violation in a document is
collected into a single AggregateError.
*/
package schema
