// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

type Id int

const (
	ConfigMissingId Id = iota + 1
	ManifestLoadId
	ManifestValidationId
	ExportOrderingId
	TaskHandlerId
	BuildConfigId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	slug     string      // name accepted by `packup explain`
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

// Slug is the kebab-case name of the issue.
func (i *Issue) Slug() string {
	return i.slug
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	var extraMd strings.Builder
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			extraMd.WriteString("- <" + string(link) + ">\n")
		}
		for _, link := range i.extLinks {
			extraMd.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(string(i.mdMsg)+extraMd.String(), stylePath)
}

var (
	render = glamour.Render

	configMissingIssue = &Issue{
		id:   ConfigMissingId,
		slug: "config-missing",
		mdMsg: `
# No package.json found!

packup watches the package in the working directory and needs its
` + "`package.json`" + ` to plan any work.

## Things you can try:
- Run packup from the package directory, or point it there:
~~~
$ packup watch --cwd ./packages/my-lib
~~~

- If the file was just deleted or renamed, restore it and start the watch again.`,
		extLinks: []HttpLink{"https://docs.npmjs.com/cli/configuring-npm/package-json"},
	}

	manifestLoadIssue = &Issue{
		id:   ManifestLoadId,
		slug: "manifest-load",
		mdMsg: `
# Failed to load package.json!

The manifest could not be read or is not valid JSON.

## Things you can try:
- Look for trailing commas, comments or unquoted keys; package.json is strict JSON
- Check the file is readable by your user
- Validate the file with:
~~~
$ node -e "require('./package.json')"
~~~`,
	}

	manifestValidationIssue = &Issue{
		id:   ManifestValidationId,
		slug: "manifest-validation",
		mdMsg: `
# Invalid package.json!

The manifest parsed, but a field does not have the shape packup expects.
The error names the offending field.

## Rules checked:
- ` + "`name`" + ` is a valid npm package name and ` + "`version`" + ` is semver
- ` + "`type`" + `, when set, is "commonjs" or "module"
- every ` + "`exports`" + ` value is a path or a condition object
- a condition object building ` + "`types`" + `, ` + "`import`" + `, ` + "`require`" + ` or ` + "`default`" + ` declares ` + "`source`" + `
- without ` + "`exports`" + `, the package declares ` + "`main`" + ` or ` + "`module`" + ` and a ` + "`source`" + `

## Example:
~~~json
{
  "name": "my-lib",
  "version": "1.0.0",
  "exports": {
    ".": {
      "types": "./dist/index.d.ts",
      "source": "./src/index.ts",
      "import": "./dist/index.mjs",
      "require": "./dist/index.js",
      "default": "./dist/index.js"
    }
  }
}
~~~`,
	}

	exportOrderingIssue = &Issue{
		id:   ExportOrderingId,
		slug: "export-ordering",
		mdMsg: `
# Export conditions are out of order!

Node resolves export conditions top to bottom and uses the first match, so
their order is significant. packup does not reorder them for you.

## Required order:
1. ` + "`types`" + ` first
2. ` + "`module`" + ` before ` + "`import`" + `
3. ` + "`default`" + ` last

` + "`import`" + ` placed after ` + "`require`" + ` is reported as a warning only.`,
		extLinks: []HttpLink{"https://nodejs.org/api/packages.html#conditional-exports"},
	}

	taskHandlerIssue = &Issue{
		id:   TaskHandlerId,
		slug: "task-handler",
		mdMsg: `
# A watch task failed!

One of the build tasks planned from your export map stopped with an error,
and the watch session was stopped with it.

## Things you can try:
- Read the tool output quoted in the error; it usually names the source file
- Check the configured command runs on its own:
~~~
$ packup check
~~~

- Make sure the tools used by ` + "`commands.bundle`" + ` and ` + "`commands.dts`" + ` are installed
  (esbuild and tsc by default)`,
	}

	buildConfigIssue = &Issue{
		id:   BuildConfigId,
		slug: "build-config",
		mdMsg: `
# Failed to load the build configuration!

packup reads the first of these files found in the package directory:
` + "`packup.config.cue`" + `, ` + "`packup.config.toml`" + `, ` + "`packup.config.yaml`" + `,
` + "`packup.config.yml`" + `, ` + "`packup.config.json`" + `.

## Things you can try:
- Fix the syntax error reported for the file
- Only use the known keys: runtime, minify, sourcemap, env_file,
  commands.bundle, commands.dts, watch.debounce, watch.ignore
- ` + "`runtime`" + ` must be "node", "web" or "*"
- Check ` + "`PACKUP_*`" + ` environment variables, they override the file

## Example packup.config.toml:
~~~toml
runtime = "node"
sourcemap = true

[watch]
debounce = "200ms"
ignore = ["**/*.test.ts"]
~~~`,
	}

	issues = map[Id]*Issue{
		configMissingIssue.Id():      configMissingIssue,
		manifestLoadIssue.Id():       manifestLoadIssue,
		manifestValidationIssue.Id(): manifestValidationIssue,
		exportOrderingIssue.Id():     exportOrderingIssue,
		taskHandlerIssue.Id():        taskHandlerIssue,
		buildConfigIssue.Id():        buildConfigIssue,
	}
)

// Values returns every issue ordered by id.
func Values() []*Issue {
	values := maps.Values(issues)
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id - b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}

// Lookup finds an issue by slug.
func Lookup(slug string) (*Issue, bool) {
	for _, i := range issues {
		if i.slug == slug {
			return i, true
		}
	}
	return nil, false
}

// Slugs returns the slugs of every issue ordered by id.
func Slugs() []string {
	values := Values()
	slugs := make([]string, 0, len(values))
	for _, i := range values {
		slugs = append(slugs, i.slug)
	}
	return slugs
}
