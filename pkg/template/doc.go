/*
Package template resolves {{ ... }} placeholder expressions against a run's
execution context.

A placeholder body is either a dotted path into the context
(Step_Name.data.field) or a call to a built-in function (now(), random(),
random_int(min,max), uuid(), env(name, default)). A string consisting of
exactly one placeholder resolves to the placeholder's native value; strings
mixing placeholders with literal text resolve to concatenated text. Resolution
recurses through nested maps and slices, leaving non-string values untouched.

Referencing a path that is not present in the context is an error, never a
silent empty substitution.
*/
package template
