package adb

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Intent is the subset of "am" intent arguments adbkit can build. Empty
// fields are left out.
type Intent struct {
	Action     string
	Data       string
	MimeType   string
	Categories []string
	Component  string
	Package    string
	User       string
	Flags      uint32

	ReceiverForeground bool
	Wait               bool

	Extras Extras
}

// Extras are the typed key/value pairs attached to an intent.
type Extras struct {
	Strings      map[string]string  // --es
	Bools        map[string]bool    // --ez
	Ints         map[string]int32   // --ei
	Longs        map[string]int64   // --el
	Floats       map[string]float32 // --ef
	URIs         map[string]string  // --eu
	Components   map[string]string  // --ecn
	IntArrays    map[string][]int32 // --eia
	LongArrays   map[string][]int64 // --ela
	StringArrays map[string][]string

	GrantReadURIPermission  bool
	GrantWriteURIPermission bool
	ExcludeStoppedPackages  bool
	IncludeStoppedPackages  bool
}

// Args renders the intent as "am" arguments, quoted for the device shell.
// Extras are emitted in key order.
func (i Intent) Args() []string {
	var args []string
	flag := func(name, value string) {
		if value != "" {
			args = append(args, name, shellQuote(value))
		}
	}

	flag("-a", i.Action)
	flag("-d", i.Data)
	flag("-t", i.MimeType)
	for _, c := range i.Categories {
		flag("-c", c)
	}
	flag("-n", i.Component)
	flag("-p", i.Package)
	flag("--user", i.User)
	if i.Flags != 0 {
		args = append(args, "-f", fmt.Sprintf("0x%08x", i.Flags))
	}
	if i.ReceiverForeground {
		args = append(args, "--receiver-foreground")
	}
	if i.Wait {
		args = append(args, "-W")
	}
	return append(args, i.Extras.args()...)
}

func (e Extras) args() []string {
	var args []string
	extra := func(name, key, value string) {
		args = append(args, name, shellQuote(key), shellQuote(value))
	}

	for _, k := range sortedKeys(e.Strings) {
		extra("--es", k, e.Strings[k])
	}
	for _, k := range sortedKeys(e.Bools) {
		extra("--ez", k, strconv.FormatBool(e.Bools[k]))
	}
	for _, k := range sortedKeys(e.Ints) {
		extra("--ei", k, strconv.FormatInt(int64(e.Ints[k]), 10))
	}
	for _, k := range sortedKeys(e.Longs) {
		extra("--el", k, strconv.FormatInt(e.Longs[k], 10))
	}
	for _, k := range sortedKeys(e.Floats) {
		extra("--ef", k, strconv.FormatFloat(float64(e.Floats[k]), 'g', -1, 32))
	}
	for _, k := range sortedKeys(e.URIs) {
		extra("--eu", k, e.URIs[k])
	}
	for _, k := range sortedKeys(e.Components) {
		extra("--ecn", k, e.Components[k])
	}
	for _, k := range sortedKeys(e.IntArrays) {
		values := make([]string, len(e.IntArrays[k]))
		for j, v := range e.IntArrays[k] {
			values[j] = strconv.FormatInt(int64(v), 10)
		}
		extra("--eia", k, strings.Join(values, ","))
	}
	for _, k := range sortedKeys(e.LongArrays) {
		values := make([]string, len(e.LongArrays[k]))
		for j, v := range e.LongArrays[k] {
			values[j] = strconv.FormatInt(v, 10)
		}
		extra("--ela", k, strings.Join(values, ","))
	}
	for _, k := range sortedKeys(e.StringArrays) {
		values := make([]string, len(e.StringArrays[k]))
		for j, v := range e.StringArrays[k] {
			// am splits string arrays on unescaped commas.
			values[j] = strings.ReplaceAll(v, ",", `\,`)
		}
		extra("--esa", k, strings.Join(values, ","))
	}

	if e.GrantReadURIPermission {
		args = append(args, "--grant-read-uri-permission")
	}
	if e.GrantWriteURIPermission {
		args = append(args, "--grant-write-uri-permission")
	}
	if e.ExcludeStoppedPackages {
		args = append(args, "--exclude-stopped-packages")
	}
	if e.IncludeStoppedPackages {
		args = append(args, "--include-stopped-packages")
	}
	return args
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
