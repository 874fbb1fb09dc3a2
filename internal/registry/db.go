package registry

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wgapi/internal/logs"
	"wgapi/internal/models"
)

// DBStore — тот же контракт поверх таблицы registry_peers.
// Включается через database.driver в конфиге.
type DBStore struct{ db *gorm.DB }

func NewDBStore(db *gorm.DB) *DBStore { return &DBStore{db: db} }

func (s *DBStore) Load(ctx context.Context) map[string]Entry {
	var rows []models.RegistryPeer
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		logs.Logger.Errorf("failed to load peers from db: %v", err)
		return map[string]Entry{}
	}
	peers := make(map[string]Entry, len(rows))
	for _, row := range rows {
		var ips []string
		if err := json.Unmarshal(row.AllowedIPs, &ips); err != nil {
			logs.Logger.Errorf("bad allowed_ips for %s: %v", row.PublicKey, err)
			continue
		}
		peers[row.PublicKey] = Entry{AllowedIPs: ips}
	}
	return peers
}

// Save — upsert по public_key.
func (s *DBStore) Save(ctx context.Context, publicKey string, allowedIPs []string) error {
	raw, err := json.Marshal(allowedIPs)
	if err != nil {
		return err
	}
	row := models.RegistryPeer{PublicKey: publicKey, AllowedIPs: datatypes.JSON(raw)}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "public_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"allowed_ips", "updated_at"}),
	}).Create(&row).Error
}

func (s *DBStore) Remove(ctx context.Context, publicKey string) error {
	return s.db.WithContext(ctx).
		Where("public_key = ?", publicKey).
		Delete(&models.RegistryPeer{}).Error
}
