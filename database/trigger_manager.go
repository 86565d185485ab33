package database

import (
	"gorm.io/gorm"

	"github.com/repairup/repairup-app/utils"
)

// technicianStatusTrigger audits every availability change so disputed
// assignments can be traced back. MySQL only; the sqlite test database skips it.
const technicianStatusTrigger = `
CREATE TRIGGER IF NOT EXISTS trg_technician_status_log
AFTER UPDATE ON technicians
FOR EACH ROW
BEGIN
    IF OLD.status <> NEW.status THEN
        INSERT INTO technician_status_logs (technician_id, old_status, new_status, changed_at)
        VALUES (NEW.id, OLD.status, NEW.status, NOW());
    END IF;
END
`

func ExecuteTriggers(db *gorm.DB) error {
	if db.Dialector.Name() != "mysql" {
		utils.InfoLogger.Printf("Skipping triggers for dialect %s", db.Dialector.Name())
		return nil
	}

	if err := db.Exec(technicianStatusTrigger).Error; err != nil {
		utils.ErrorLogger.Printf("Error installing technician status trigger: %v", err)
		return err
	}

	var triggers []struct {
		TriggerName string
		EventType   string
		TableName   string
		Timing      string
	}
	db.Raw(`
        SELECT
            TRIGGER_NAME as trigger_name,
            EVENT_MANIPULATION as event_type,
            EVENT_OBJECT_TABLE as table_name,
            ACTION_TIMING as timing
        FROM information_schema.triggers
        WHERE TRIGGER_SCHEMA = DATABASE()
    `).Scan(&triggers)

	for _, t := range triggers {
		utils.InfoLogger.Printf("Trigger verified: %s (%s %s on %s)",
			t.TriggerName, t.Timing, t.EventType, t.TableName)
	}

	return nil
}
