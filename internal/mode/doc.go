// Package mode keeps the registry of path translation modes. Each mode is an
// alternate policy for the same dispatch: how many segments a path needs,
// whether the allowlist applies, how upstream failures surface and whether the
// response carries a Cache-Control directive. Modes register themselves from
// init() in their own subpackage, the way hub modules used to.
package mode
