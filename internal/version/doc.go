// Package version extracts, orders and bumps semantic versions found in tags.
//
// Tags are free-form: "v1.3.5", "release-2.0.0" and "1.2.3-rc1" all carry a
// version. [Parse] takes the first "N.N.N" substring it finds. A tag without
// one becomes the default tag 1.0.0 with [Tag.Default] set, which callers read
// as "no prior release exists" rather than as a real version.
//
// [Suggest] implements the next-release rule: the highest tag with its minor
// number bumped, or 1.0.0 when there is nothing to bump.
package version
