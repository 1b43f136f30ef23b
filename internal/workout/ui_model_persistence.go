package workout

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
)

type uiModelPersistenceData struct {
	LastPresetID string `json:"last_preset_id"`
	LastMode     UIMode `json:"last_mode"`
}

type uiModelPersistence struct {
	filePath string
	data     uiModelPersistenceData
	logger   *log.Logger
}

func newUIModelPersistence(dataDir string, logger *log.Logger) *uiModelPersistence {
	p := &uiModelPersistence{
		filePath: filepath.Join(dataDir, "ui_state.json"),
		logger:   logger,
	}
	p.load()
	return p
}

func (p *uiModelPersistence) lastPresetID() string {
	return p.data.LastPresetID
}

func (p *uiModelPersistence) lastMode() UIMode {
	if _, ok := GetUIModeInfo(p.data.LastMode); !ok {
		return UIModeTimer
	}
	return p.data.LastMode
}

func (p *uiModelPersistence) setLastPresetID(id string) {
	if p.data.LastPresetID == id {
		return
	}
	p.logger.Printf("UIModelPersistence: setLastPresetID -> %q", id)
	p.data.LastPresetID = id
	p.save()
}

func (p *uiModelPersistence) setLastMode(mode UIMode) {
	if p.data.LastMode == mode {
		return
	}
	p.data.LastMode = mode
	p.save()
}

func (p *uiModelPersistence) load() {
	p.data = uiModelPersistenceData{LastMode: UIModeTimer}
	raw, err := os.ReadFile(p.filePath)
	if err != nil {
		p.logger.Printf("UIModelPersistence: load %s (no existing file)", p.filePath)
		return
	}
	if err := json.Unmarshal(raw, &p.data); err != nil {
		p.logger.Printf("UIModelPersistence: load %s failed to parse: %v", p.filePath, err)
		p.data = uiModelPersistenceData{LastMode: UIModeTimer}
		return
	}
	p.logger.Printf("UIModelPersistence: load %s -> preset %q", p.filePath, p.data.LastPresetID)
}

func (p *uiModelPersistence) save() {
	if err := os.MkdirAll(filepath.Dir(p.filePath), 0755); err != nil {
		p.logger.Printf("UIModelPersistence: save mkdir failed: %v", err)
		return
	}
	raw, err := json.MarshalIndent(p.data, "", "  ")
	if err != nil {
		p.logger.Printf("UIModelPersistence: save marshal failed: %v", err)
		return
	}
	if err := os.WriteFile(p.filePath, raw, 0644); err != nil {
		p.logger.Printf("UIModelPersistence: save %s failed: %v", p.filePath, err)
		return
	}
	p.logger.Printf("UIModelPersistence: save %s", p.filePath)
}
