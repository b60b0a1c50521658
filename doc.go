// Package mdtokens recognizes short tokens embedded in the text of a Markdown tree and
// records them as metadata on the nodes they apply to.
//
// Three forms are recognized inside text nodes:
//   - :name: is a neutral token. It stays in the text as its own marker node whose
//     data.token is "name".
//   - :^name: assigns "name" to the node before it and is removed from the text.
//   - :name^: assigns "name" to the node after it and is removed from the text.
//
// Assigned tokens are appended to data.tokens of the adjacent node at the same level.
// Text nodes never receive tokens, so a token next to plain text goes to the enclosing
// block. A paragraph holding nothing but assignment tokens is dropped and its tokens move
// to the neighboring block, or to the root when there is none.
//
// Example:
//
//	root, err := mdtokens.ReadMarkdown([]byte("# Notes :^draft:\n\nBody.\n"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	if _, err := mdtokens.ParseTokens(root); err != nil {
//		log.Fatal(err)
//	}
//	for _, a := range mdtokens.Assignments(root) {
//		fmt.Println(a.Node.Type, a.Tokens) // heading [draft]
//	}
//
// Trees can be read and written as mdast JSON or YAML with DecodeTree and EncodeTree, and
// printed as an outline with Fprint.
package mdtokens
