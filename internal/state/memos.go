package state

import (
	"context"

	"github.com/frahmantamala/hr-core/internal"
	"github.com/frahmantamala/hr-core/internal/memo"
	"github.com/frahmantamala/hr-core/internal/storage"
)

func (s *Store) Memos() []memo.Memo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.memos.All()
}

func (s *Store) AddMemo(ctx context.Context, dto memo.MemoDTO) (memo.Memo, error) {
	if err := dto.Validate(); err != nil {
		return memo.Memo{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return memo.Memo{}, err
	}

	m := memo.Memo{ID: s.ids.Next(), Title: dto.Title, Content: dto.Content, Date: dto.Date}
	s.memos.Add(m)
	if err := s.persist(ctx, storage.KeyMemos, s.memos.snapshot()); err != nil {
		return m, err
	}
	s.logger.Info("memo created", "memo_id", m.ID)
	return m, nil
}

func (s *Store) UpdateMemo(ctx context.Context, id int64, dto memo.MemoDTO) (memo.Memo, error) {
	if err := dto.Validate(); err != nil {
		return memo.Memo{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return memo.Memo{}, err
	}

	m := memo.Memo{ID: id, Title: dto.Title, Content: dto.Content, Date: dto.Date}
	if err := s.memos.Update(m); err != nil {
		return memo.Memo{}, internal.ErrMemoNotFound
	}
	if err := s.persist(ctx, storage.KeyMemos, s.memos.snapshot()); err != nil {
		return m, err
	}
	s.logger.Info("memo updated", "memo_id", id)
	return m, nil
}

func (s *Store) DeleteMemo(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}

	if err := s.memos.Remove(id); err != nil {
		return internal.ErrMemoNotFound
	}
	if err := s.persist(ctx, storage.KeyMemos, s.memos.snapshot()); err != nil {
		return err
	}
	s.logger.Info("memo deleted", "memo_id", id)
	return nil
}
