package config

// Resolver provides lazy per-project config resolution with caching.
// It loads and merges per-project .relcut.toml files with the global config on demand.
type Resolver struct {
	global *Config
	cache  map[string]*Config // project dir -> merged config
}

// NewResolver creates a new Resolver backed by the given global config.
func NewResolver(global *Config) *Resolver {
	return &Resolver{
		global: global,
		cache:  make(map[string]*Config),
	}
}

// ForProject returns the effective config for a project clone, merging any
// .relcut.toml found at dir with the global config. Results are cached per dir.
func (r *Resolver) ForProject(dir string) (*Config, error) {
	if cached, ok := r.cache[dir]; ok {
		return cached, nil
	}

	local, err := LoadLocal(dir)
	if err != nil {
		return nil, err
	}

	merged := MergeLocal(r.global, local)
	r.cache[dir] = merged
	return merged, nil
}

// Invalidate drops the cached config for dir. The release flow calls it
// after syncing a clone, since the pull may have changed .relcut.toml.
func (r *Resolver) Invalidate(dir string) {
	delete(r.cache, dir)
}
