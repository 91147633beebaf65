package configstore

// configSchema guards Load against structurally broken files. Unknown
// keys are allowed so a file written by a newer version survives a
// round-trip through an older one.
const configSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["repositories", "default_repositories"],
  "properties": {
    "repositories": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["url"],
        "properties": {
          "url": {"type": "string", "minLength": 1},
          "display_name": {"type": "string"},
          "added_at": {"type": "string"}
        }
      }
    },
    "default_repositories": {
      "type": "array",
      "items": {"type": "string"}
    },
    "last_used_repo": {"type": "string"},
    "last_used_branch": {"type": "string"}
  }
}`
