// Package llm provides the external text-classifier collaborator: provider
// clients, the field prompt, response parsing, and the cached field
// classifier adapter built on top of them.
package llm
