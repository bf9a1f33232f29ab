package setup

import "errors"

// ArchivePath resolves the SQLite archive path: the explicit value when given,
// otherwise server.db from the config.
func (f *Flags) ArchivePath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	cfg, err := f.LoadConfig()
	if err != nil {
		return "", err
	}
	if cfg.Server.DBPath == "" {
		return "", errors.New("no archive database: pass --db or set server.db in the config")
	}
	return cfg.Server.DBPath, nil
}
