package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"expense-forwarder/internal/ai"
	"expense-forwarder/internal/core"
	"expense-forwarder/internal/history"
	"expense-forwarder/internal/splitwise"
)

// Service is the production ForwarderService.
type Service struct {
	parser        ai.ParserService
	converter     *core.Converter
	ledger        LedgerClient
	history       *history.Store // nil disables the duplicate guard
	minConfidence float64
	logger        *slog.Logger
}

func NewService(parser ai.ParserService, converter *core.Converter, ledger LedgerClient, store *history.Store, minConfidence float64, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		parser:        parser,
		converter:     converter,
		ledger:        ledger,
		history:       store,
		minConfidence: minConfidence,
		logger:        logger,
	}
}

func (s *Service) Principal() core.Identity {
	return s.converter.Principal()
}

func (s *Service) ParseEmail(ctx context.Context, subject, body string) (*core.ExtractionResult, error) {
	result, err := s.parser.ParseEmail(ctx, subject, body)
	if err != nil {
		return nil, fmt.Errorf("parse email: %w", err)
	}
	s.logger.Info("parsed email", "confidence", result.Confidence, "description", result.Candidate.Description)
	return result, nil
}

func (s *Service) ConvertCandidate(ctx context.Context, candidate core.CandidateExpense, groupID int64) (*core.ConversionResult, error) {
	return s.converter.Convert(ctx, candidate, groupID)
}

func (s *Service) SubmitRecord(ctx context.Context, req SubmitRequest) (*ForwardResult, error) {
	key := history.Key(req.Subject, req.Body)
	if s.history != nil {
		duplicate, err := s.history.AlreadyForwarded(ctx, key)
		if err != nil {
			return nil, err
		}
		if duplicate {
			s.logger.Info("email already forwarded, skipping", "key", key)
			return &ForwardResult{Duplicate: true}, nil
		}
	}

	receipt, err := s.ledger.Submit(ctx, req.Record)
	if err != nil {
		return nil, fmt.Errorf("submit expense: %w", err)
	}

	if s.history != nil {
		err := s.history.RecordForward(ctx, history.Record{
			IdempotencyKey: key,
			Description:    req.Record.Description,
			Cost:           req.Record.Cost,
			Currency:       req.Record.CurrencyCode,
			ExpenseID:      receipt.ExpenseID,
			Confidence:     req.Confidence,
		})
		if err != nil {
			// The expense is already on the ledger; losing the history row
			// must not fail the forward.
			s.logger.Warn("failed to record forward history", "error", err)
		}
	}

	return &ForwardResult{
		ExpenseID:  receipt.ExpenseID,
		Record:     req.Record,
		Warnings:   req.Warnings,
		Confidence: req.Confidence,
	}, nil
}

func (s *Service) ForwardEmail(ctx context.Context, req ForwardRequest) (*ForwardResult, error) {
	if s.history != nil {
		duplicate, err := s.history.AlreadyForwarded(ctx, history.Key(req.Subject, req.Body))
		if err != nil {
			return nil, err
		}
		if duplicate {
			s.logger.Info("email already forwarded, skipping")
			return &ForwardResult{Duplicate: true}, nil
		}
	}

	extraction, err := s.ParseEmail(ctx, req.Subject, req.Body)
	if err != nil {
		return nil, err
	}
	if extraction.Confidence < s.minConfidence {
		return nil, fmt.Errorf("extraction confidence %.2f is below the minimum %.2f: %s",
			extraction.Confidence, s.minConfidence, extraction.Notes)
	}

	conversion, err := s.converter.Convert(ctx, extraction.Candidate, req.GroupID)
	if err != nil {
		return nil, err
	}

	result, err := s.SubmitRecord(ctx, SubmitRequest{
		Subject:    req.Subject,
		Body:       req.Body,
		Record:     conversion.Record,
		Warnings:   conversion.Warnings,
		Confidence: extraction.Confidence,
	})
	if err != nil {
		return nil, err
	}
	result.Notes = extraction.Notes
	return result, nil
}

func (s *Service) ListFriends(ctx context.Context) ([]core.Identity, error) {
	return s.ledger.Friends(ctx)
}

func (s *Service) ListGroups(ctx context.Context) ([]splitwise.Group, error) {
	return s.ledger.Groups(ctx)
}

func (s *Service) RecentHistory(ctx context.Context, limit int) ([]history.Record, error) {
	if s.history == nil {
		return nil, errors.New("forward history is not configured (set DATABASE_URL)")
	}
	return s.history.Recent(ctx, limit)
}
