package mcpserver

// DocumentSchemaContract describes the rich-document JSON tree returned by
// the import tools.
const DocumentSchemaContract = `# Raido Document Schema

Every import returns ` + "`{document, frontMatter?, title?}`" + `. Batch results add ` + "`id`" + `.

## Tree

` + "```" + `json
{"root": {"type": "root", "children": [ <block>, ... ]}}
` + "```" + `

## Blocks

| type | fields |
|---|---|
| heading | ` + "`tag`" + ` (h1, h2, h3), ` + "`children`" + ` inline nodes |
| paragraph | ` + "`children`" + ` inline nodes (empty for a blank line) |
| list | ` + "`listType`" + ` (bullet, number, check), ` + "`children`" + ` listitem nodes |
| listitem | ` + "`children`" + ` inline nodes, ` + "`checked`" + ` only on check items |
| horizontalrule | none (never produced by import) |

## Inline nodes

| type | fields |
|---|---|
| text | ` + "`text`" + `, ` + "`format`" + ` bit set |
| tag | ` + "`tagName`" + ` without the leading #, brackets removed |

Format bits: bold = 1, italic = 2, strikethrough = 4, code = 16. One marker
style applies per run, so format is always one of 0, 1, 2, 4, 16.

## Source rules

1. A file may start with a ` + "`---`" + ` line; everything up to the next
   ` + "`---`" + ` line is YAML front matter. Values are strings or lists of strings.
2. ` + "`title`" + ` in front matter wins over the first ` + "`# h1`" + ` heading.
3. ` + "`#`" + `, ` + "`##`" + ` and ` + "`###`" + ` start headings when followed by one space.
   Four or more ` + "`#`" + ` also produce h3.
4. ` + "`- `" + `, ` + "`* `" + ` start bullet items, ` + "`1. `" + ` number items and ` + "`- [ ] `" + ` /
   ` + "`- [x] `" + ` check items. Consecutive items of one kind form one list.
5. Every other line, blank ones included, is a paragraph. The import tools
   never emit horizontalrule; it exists for other producers.
6. Inline markers: ` + "`**bold**`" + `, ` + "`*italic*`" + `, ` + "`~~strike~~`" + `, backtick code.
   Markers do not nest.
7. Tags are ` + "`#word`" + ` by default or ` + "`#[multi word]`" + ` with tag_format=bracket.

## Example

` + "```" + `markdown
---
title: Standup
tags: [team]
---
# Standup
- [x] ship **parser** #done
` + "```" + `
`
