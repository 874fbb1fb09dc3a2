package registry

import (
	"context"

	"wgapi/internal/logs"
)

// Entry — значение реестра для одного пира.
type Entry struct {
	AllowedIPs []string `json:"allowed_ips"`
}

// Store — долговременный реестр пиров: public key → allowed IPs.
// Это единственный источник того, какие пиры должны существовать после
// перезапуска интерфейса (сам интерфейс пиров на ребуте теряет).
// Носителем (файл или таблица) владеет только Store.
type Store interface {
	// Load возвращает весь реестр. Нечитаемый/битый носитель — пустая
	// карта: ошибка логируется и наружу не выходит.
	Load(ctx context.Context) map[string]Entry

	Save(ctx context.Context, publicKey string, allowedIPs []string) error

	// Remove — no-op без записи, если ключа нет.
	Remove(ctx context.Context, publicKey string) error
}

// Restore проигрывает весь реестр через add (живая половина создания
// пира, мимо повторной записи в реестр). Ошибка одной записи логируется
// и не прерывает остальные.
func Restore(ctx context.Context, s Store, add func(publicKey string, allowedIPs []string) error) int {
	count := 0
	for publicKey, entry := range s.Load(ctx) {
		if err := add(publicKey, entry.AllowedIPs); err != nil {
			logs.Logger.Errorf("failed to restore peer %s: %v", publicKey, err)
			continue
		}
		count++
	}
	logs.Logger.Infof("restored %d peers", count)
	return count
}
