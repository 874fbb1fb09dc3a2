package registry

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"wgapi/internal/logs"
)

// FileStore — реестр в одном JSON-файле, pretty-printed (удобно глазами
// смотреть на томе). Read-modify-write без блокировок и без temp+rename:
// процесс один, писатель один.
type FileStore struct {
	path string
}

// NewFileStore создаёт реестр по пути path. Каталог создаётся при
// необходимости; неудача не фатальна (обычно /config — примонтированный
// том) — последующие операции упадут сами и будут обработаны на месте.
func NewFileStore(path string) *FileStore {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logs.Logger.Warnf("could not create storage directory %s: %v", dir, err)
		}
	}
	return &FileStore{path: path}
}

func (s *FileStore) Load(_ context.Context) map[string]Entry {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logs.Logger.Errorf("failed to load peers from storage: %v", err)
		}
		return map[string]Entry{}
	}
	peers := map[string]Entry{}
	if err := json.Unmarshal(data, &peers); err != nil {
		// битый файл деградирует до пустого реестра
		logs.Logger.Errorf("failed to load peers from storage: %v", err)
		return map[string]Entry{}
	}
	return peers
}

func (s *FileStore) Save(ctx context.Context, publicKey string, allowedIPs []string) error {
	peers := s.Load(ctx)
	peers[publicKey] = Entry{AllowedIPs: allowedIPs}
	s.write(peers)
	return nil
}

func (s *FileStore) Remove(ctx context.Context, publicKey string) error {
	peers := s.Load(ctx)
	if _, ok := peers[publicKey]; !ok {
		return nil
	}
	delete(peers, publicKey)
	s.write(peers)
	return nil
}

// write сбрасывает реестр на диск. Ошибка записи логируется и гасится:
// пир к этому моменту уже добавлен на интерфейс, и откатывать его из-за
// диска мы не будем (окно рассинхронизации задокументировано).
func (s *FileStore) write(peers map[string]Entry) {
	data, err := json.MarshalIndent(peers, "", "  ")
	if err != nil {
		logs.Logger.Errorf("failed to encode peers for storage: %v", err)
		return
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		logs.Logger.Errorf("failed to write peers to storage: %v", err)
	}
}
