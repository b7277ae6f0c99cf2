// Command licenses builds crunkurrent and writes the license of every
// module linked into the binary to the file named by its last argument.
//
//	go run ./cmd/licenses CREDITS.txt
package main

import (
	"fmt"
	"go/build"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/mod/module"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: licenses <outfile>")
		os.Exit(2)
	}
	if err := run(os.Args[len(os.Args)-1]); err != nil {
		panic(err)
	}
}

func run(outfile string) error {
	cmd := exec.Command("go", "build", "-o", "crunkurrent.licenses", "./cmd/crunkurrent")
	defer os.Remove("crunkurrent.licenses")
	if err := cmd.Run(); err != nil {
		return err
	}

	cmd = exec.Command("go", "version", "-m", "./crunkurrent.licenses")
	var w strings.Builder
	cmd.Stdout = &w
	if err := cmd.Run(); err != nil {
		return err
	}

	gopath := os.Getenv("GOPATH")
	if gopath == "" {
		gopath = build.Default.GOPATH
	}

	var out []string
	for _, dep := range deps(w.String()) {
		depPathname, err := encodePath(dep)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "used:", dep)

		text, err := findLicense(filepath.Join(gopath, "pkg", "mod", depPathname))
		if err != nil {
			return err
		}
		if text == "" {
			continue
		}
		out = append(out, dep+"\n"+strings.Repeat("=", len(dep))+"\n\n"+text)
	}

	return os.WriteFile(outfile, []byte(strings.Join(out, "\n\n\n")), 0644)
}

// deps extracts "path@version" for every dep line of `go version -m`
// output.
func deps(versionOutput string) []string {
	var out []string
	for _, line := range strings.Split(versionOutput, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 || fields[0] != "dep" {
			continue
		}
		out = append(out, fields[1]+"@"+fields[2])
	}
	return out
}

// encodePath converts "path@version" into its directory name in the
// module cache, which case-escapes both halves.
func encodePath(dep string) (string, error) {
	path, version, ok := strings.Cut(dep, "@")
	if !ok {
		return "", fmt.Errorf("malformed dep %q", dep)
	}
	p, err := module.EscapePath(path)
	if err != nil {
		return "", err
	}
	v, err := module.EscapeVersion(version)
	if err != nil {
		return "", err
	}
	return p + "@" + v, nil
}

// findLicense returns the contents of the first license file in dir, or ""
// if there isn't one.
func findLicense(dir string) (string, error) {
	fs, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, f := range fs {
		if f.IsDir() {
			continue
		}
		if _, ok := licenseNames[f.Name()]; !ok {
			continue
		}
		bs, err := os.ReadFile(filepath.Join(dir, f.Name()))
		if err != nil {
			return "", err
		}
		return string(bs), nil
	}
	return "", nil
}

var licenseNames map[string]struct{}

func init() {
	names := strings.Split("COPYING, COPYING.md, COPYING.txt, LICENCE, LICENCE.md, LICENCE.txt, LICENSE, LICENSE.md, LICENSE.markdown, LICENSE.txt, LICENSE-2.0.txt, LICENSE-APACHE, LICENSE-MIT, LICENSE.MIT, MIT-LICENSE, MIT-LICENSE.txt, UNLICENSE", ", ")
	licenseNames = make(map[string]struct{}, len(names))
	for _, n := range names {
		licenseNames[n] = struct{}{}
	}
}
