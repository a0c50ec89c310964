// Package confloader loads subtrack configuration with koanf.
//
// Sources are layered, later ones overriding earlier ones:
//
//  1. Defaults (the target struct as passed in)
//  2. YAML configuration file
//  3. Environment variables (SUBTRACK_ prefix)
//  4. Command-line flags (LoadMap)
//
// Environment variable names are ambiguous once nested keys contain
// underscores (SUBTRACK_CHAIN_API_KEY could be chain.api.key). Register the
// real keys with WithEnvKeys so they resolve exactly; unknown variables fall
// back to treating every underscore as a separator.
package confloader
