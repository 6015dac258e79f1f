package persist

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type saveJob struct {
	character *CharacterRow
	mastery   *masteryJob
	wal       []WALEntry
	skill     *skillJob
	mallKey   *mallKeyJob
	mallSweep bool
}

type mallKeyJob struct {
	userID      uint32
	characterID uint32
	key         string
}

type masteryJob struct {
	characterID uint32
	masteryID   uint32
	level       uint8
}

type skillJob struct {
	characterID  uint32
	skillGroupID uint32
	level        uint8
}

// Saver executes persistence jobs on its own goroutine. The simulation
// never blocks: jobs go over a bounded channel, failures are logged and
// character state is re-sent on the next autosave interval anyway.
type Saver struct {
	characters *CharacterRepo
	mall       *MallRepo
	wal        *WALRepo
	jobs       chan saveJob
	log        *zap.Logger
}

func NewSaver(characters *CharacterRepo, mall *MallRepo, wal *WALRepo, log *zap.Logger) *Saver {
	return &Saver{
		characters: characters,
		mall:       mall,
		wal:        wal,
		jobs:       make(chan saveJob, 256),
		log:        log,
	}
}

// Run consumes jobs until the context is cancelled.
func (s *Saver) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case job := <-s.jobs:
			s.execute(ctx, job)
		}
	}
}

func (s *Saver) execute(ctx context.Context, job saveJob) {
	jobCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	switch {
	case job.character != nil:
		if err := s.characters.UpdateInfo(jobCtx, job.character); err != nil {
			s.log.Error("角色存檔失敗",
				zap.String("name", job.character.Name),
				zap.Error(err),
			)
		}
	case job.mastery != nil:
		if err := s.characters.UpsertMastery(jobCtx, job.mastery.characterID, job.mastery.masteryID, job.mastery.level); err != nil {
			s.log.Error("精通存檔失敗", zap.Error(err))
		}
	case job.wal != nil:
		if err := s.wal.Write(jobCtx, job.wal); err != nil {
			s.log.Error("經濟日誌寫入失敗", zap.Error(err))
		}
	case job.skill != nil:
		if err := s.characters.UpsertSkill(jobCtx, job.skill.characterID, job.skill.skillGroupID, job.skill.level); err != nil {
			s.log.Error("技能存檔失敗", zap.Error(err))
		}
	case job.mallKey != nil:
		if err := s.mall.InsertUserKey(jobCtx, job.mallKey.userID, job.mallKey.characterID, job.mallKey.key); err != nil {
			s.log.Error("商城金鑰寫入失敗", zap.Error(err))
		}
	case job.mallSweep:
		if err := s.mall.DeleteExpiredKeys(jobCtx); err != nil {
			s.log.Error("商城金鑰清理失敗", zap.Error(err))
		}
	}
}

func (s *Saver) queue(job saveJob) {
	select {
	case s.jobs <- job:
	default:
		s.log.Warn("存檔佇列已滿，延後到下次自動存檔")
	}
}

func (s *Saver) QueueCharacterSave(row *CharacterRow) {
	s.queue(saveJob{character: row})
}

func (s *Saver) QueueMasteryUpsert(characterID, masteryID uint32, level uint8) {
	s.queue(saveJob{mastery: &masteryJob{characterID: characterID, masteryID: masteryID, level: level}})
}

func (s *Saver) QueueWAL(entries []WALEntry) {
	if len(entries) == 0 {
		return
	}
	s.queue(saveJob{wal: entries})
}

func (s *Saver) QueueSkillUpsert(characterID, skillGroupID uint32, level uint8) {
	s.queue(saveJob{skill: &skillJob{characterID: characterID, skillGroupID: skillGroupID, level: level}})
}

func (s *Saver) QueueMallKey(userID, characterID uint32, key string) {
	s.queue(saveJob{mallKey: &mallKeyJob{userID: userID, characterID: characterID, key: key}})
}

func (s *Saver) QueueMallSweep() {
	s.queue(saveJob{mallSweep: true})
}
