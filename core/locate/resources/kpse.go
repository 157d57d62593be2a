package resources

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/npillmayer/htfgen/core"
	"github.com/npillmayer/schuko"
)

func findKpsewhichBinary(conf schuko.Configuration) (path string, err error) {
	path = conf.GetString("kpsewhich")
	if path == "" {
		tracer().Debugf("kpsewhich not configured: key 'kpsewhich' should point to location of 'kpsewhich' binary")
		err = errors.New("kpsewhich not configured")
	}
	return
}

// kpseCache remembers the results of kpsewhich calls. Running kpsewhich is
// slow, and a TeX installation rarely changes. The cache is persisted in
// the user's config directory, one 'name<TAB>path' pair per line.
type kpseCache struct {
	sync.Mutex
	loaded  bool
	file    string
	entries map[string]string
}

var kpseLookups = &kpseCache{entries: make(map[string]string)}

func kpseCacheFilename(conf schuko.Configuration) (string, bool) {
	appkey := conf.GetString("app-key")
	tracer().Debugf("config[app-key] = %s", appkey)
	uconfdir, err := os.UserConfigDir()
	if appkey == "" || err != nil {
		tracer().Debugf("user config directory not set, kpsewhich results will not be cached")
		return "", false
	}
	dir := filepath.Join(uconfdir, appkey)
	if _, err = os.Stat(dir); os.IsNotExist(err) {
		if err = os.MkdirAll(dir, 0755); err != nil {
			err = core.WrapError(err, core.EINVALID,
				"user configuration path cannot be created: %s", dir)
			core.UserError(err)
			return "", false
		}
	}
	return filepath.Join(dir, "kpsewhich.txt"), true
}

// load reads the persisted cache once.
func (kc *kpseCache) load(conf schuko.Configuration) {
	if kc.loaded {
		return
	}
	kc.loaded = true
	fname, ok := kpseCacheFilename(conf)
	if !ok {
		return
	}
	kc.file = fname
	f, err := os.Open(fname)
	if err != nil {
		return // no cache yet
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	n := 0
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) != 2 || fields[0] == "" {
			continue
		}
		if isFile(fields[1]) { // drop stale entries
			kc.entries[fields[0]] = fields[1]
			n++
		}
	}
	if err = scanner.Err(); err != nil {
		err = core.WrapError(err, core.EINVALID,
			"encountered a problem during reading of kpsewhich cache: %s", fname)
		core.UserError(err)
	}
	tracer().Infof("loaded %d cached kpsewhich results", n)
}

func (kc *kpseCache) lookup(conf schuko.Configuration, name string) (string, bool) {
	kc.Lock()
	defer kc.Unlock()
	kc.load(conf)
	p, ok := kc.entries[name]
	return p, ok
}

func (kc *kpseCache) store(name, path string) {
	kc.Lock()
	defer kc.Unlock()
	kc.entries[name] = path
	if kc.file == "" {
		return
	}
	f, err := os.OpenFile(kc.file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		tracer().Errorf("cannot write kpsewhich cache: %v", err)
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "%s\t%s\n", name, path)
}

// kpsewhich asks the kpathsea library for the location of a file, using
// its command line interface. We call the binary instead of linking the C
// library because of possible version issues. If kpsewhich is not
// configured, kpsewhich silently reports that nothing was found.
func kpsewhich(ctx context.Context, conf schuko.Configuration, candidates []string) (string, bool) {
	kpath, err := findKpsewhichBinary(conf)
	if err != nil {
		return "", false
	}
	for _, c := range candidates {
		name := filepath.Base(c)
		if p, ok := kpseLookups.lookup(conf, name); ok {
			return p, true
		}
	}
	if !filepath.IsAbs(kpath) {
		err = core.Error(core.EINVALID, "kpsewhich binary must point to absolute path: %s", kpath)
		core.UserError(err)
		return "", false
	}
	if fi, err := os.Stat(kpath); err != nil || (fi.Mode().Perm()&0100) == 0 {
		err = core.WrapError(err, core.EINVALID,
			"kpsewhich configuration points to an invalid binary: %s", kpath)
		core.UserError(err)
		return "", false
	}
	for _, c := range candidates {
		name := filepath.Base(c)
		out, err := exec.CommandContext(ctx, kpath, name).Output()
		if err != nil { // kpsewhich exits with status 1 for unknown files
			tracer().Debugf("kpsewhich %s: %v", name, err)
			continue
		}
		p := strings.TrimSpace(string(out))
		if p != "" && isFile(p) {
			kpseLookups.store(name, p)
			return p, true
		}
	}
	return "", false
}
