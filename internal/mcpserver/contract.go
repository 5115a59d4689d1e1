package mcpserver

// TagConventions describes the tag format that LLM consumers should follow
// when supplying tags on create, so generated tags and heuristic tags share
// one namespace.
const TagConventions = `# Noteshot Tag Conventions

Tags are the only relationship mechanism between notes: two notes sharing a
tag are linked in the graph. Keep the namespace small and consistent.

## Rules

1. **Lowercase only.** ` + "`" + `Meeting-Notes` + "`" + ` and ` + "`" + `meeting-notes` + "`" + ` would be two
   different tags; always use the lowercase form.
2. **Kebab-case for multi-word tags** (e.g. ` + "`" + `project-x` + "`" + `, ` + "`" + `meeting-notes` + "`" + `).
   Spaces are replaced with hyphens.
3. **Allowed characters:** ` + "`" + `a-z` + "`" + `, ` + "`" + `0-9` + "`" + `, and ` + "`" + `-` + "`" + `. Anything else is stripped.
4. **Reuse before inventing.** Call ` + "`" + `list_tags` + "`" + ` first and prefer an existing
   tag over a near-synonym; graph edges only form between identical tags.
5. **Few and meaningful.** Three to seven tags per note is plenty.

## Sources of tags

- Inline hashtags in the content (` + "`" + `#budget` + "`" + `) are extracted automatically.
- Background enrichment may add AI-generated tags later; they follow the same
  rules and never remove tags that are already present.
`
