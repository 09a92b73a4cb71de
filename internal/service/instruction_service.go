package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"context-engine-be/internal/apperror"
	"context-engine-be/internal/constant"
	"context-engine-be/internal/dto"
	"context-engine-be/internal/entity"
	"context-engine-be/internal/repository/memory"
	"context-engine-be/internal/repository/specification"
	"context-engine-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IInstructionService interface {
	GetActive(ctx context.Context, userId uuid.UUID, req *dto.ListInstructionsRequest) ([]*dto.InstructionResponse, error)
	// RenderContextBlock returns the formatted block plus the ids of every
	// instruction included in it, for applied-count accounting.
	RenderContextBlock(ctx context.Context, userId uuid.UUID) (string, []uuid.UUID, error)
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateInstructionRequest) (*dto.CreateInstructionResponse, error)
	Supersede(ctx context.Context, userId uuid.UUID, req *dto.SupersedeInstructionRequest) (*dto.SupersedeInstructionResponse, error)
	Deactivate(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	RecordApplied(ctx context.Context, instructionId uuid.UUID, appliedAt time.Time) error
}

type instructionService struct {
	uowFactory unitofwork.RepositoryFactory
	blockCache *memory.ContextBlockCache
}

func NewInstructionService(
	uowFactory unitofwork.RepositoryFactory,
	blockCache *memory.ContextBlockCache,
) IInstructionService {
	return &instructionService{
		uowFactory: uowFactory,
		blockCache: blockCache,
	}
}

func (s *instructionService) GetActive(ctx context.Context, userId uuid.UUID, req *dto.ListInstructionsRequest) ([]*dto.InstructionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	limit := req.Limit
	if limit <= 0 {
		limit = constant.DefaultActiveInstructionLimit
	}

	specs := []specification.Specification{
		specification.OwnedBy{UserID: userId},
		specification.ActiveOnly{},
		specification.PriorityOrder{},
		specification.Limit{Limit: limit},
	}
	if req.Category != "" {
		if !ValidCategory(req.Category) {
			return nil, apperror.InvalidInput(fmt.Sprintf("unknown category %q", req.Category))
		}
		specs = append(specs, specification.ByCategory{Category: req.Category})
	}
	if req.MinPriority > 0 {
		specs = append(specs, specification.MinPriority{Priority: req.MinPriority})
	}

	instructions, err := uow.InstructionRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.InstructionResponse, 0, len(instructions))
	for _, ins := range instructions {
		result = append(result, toInstructionResponse(ins))
	}
	return result, nil
}

func (s *instructionService) RenderContextBlock(ctx context.Context, userId uuid.UUID) (string, []uuid.UUID, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	instructions, err := uow.InstructionRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.ActiveOnly{},
		specification.PriorityOrder{},
		specification.Limit{Limit: constant.DefaultActiveInstructionLimit},
	)
	if err != nil {
		return "", nil, err
	}

	block := RenderInstructionBlock(instructions)
	ids := make([]uuid.UUID, 0, len(instructions))
	for _, ins := range instructions {
		ids = append(ids, ins.Id)
	}
	return block, ids, nil
}

func (s *instructionService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateInstructionRequest) (*dto.CreateInstructionResponse, error) {
	if !ValidCategory(req.Category) {
		return nil, apperror.InvalidInput(fmt.Sprintf("unknown category %q", req.Category))
	}
	if req.Priority < constant.InstructionPriorityMin || req.Priority > constant.InstructionPriorityMax {
		return nil, apperror.InvalidInput(fmt.Sprintf("priority %d out of range [%d,%d]",
			req.Priority, constant.InstructionPriorityMin, constant.InstructionPriorityMax))
	}

	source := req.Source
	if source == "" {
		source = constant.InstructionSourceExplicit
	}
	if !validSource(source) {
		return nil, apperror.InvalidInput(fmt.Sprintf("unknown source %q", source))
	}

	confidence := 1.0
	if req.Confidence != nil {
		confidence = *req.Confidence
	}
	if confidence < 0 || confidence > 1 {
		return nil, apperror.InvalidInput("confidence must be within [0,1]")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	instruction := entity.Instruction{
		Id:                   uuid.New(),
		UserId:               userId,
		Category:             req.Category,
		Instruction:          req.Instruction,
		OriginalUtterance:    req.OriginalUtterance,
		Priority:             req.Priority,
		IsActive:             true,
		Source:               source,
		Confidence:           confidence,
		Tags:                 req.Tags,
		OriginConversationId: req.OriginConversationId,
		CreatedAt:            time.Now(),
	}

	if err := uow.InstructionRepository().Create(ctx, &instruction); err != nil {
		return nil, err
	}

	s.blockCache.Invalidate(ctx, userId)

	return &dto.CreateInstructionResponse{Id: instruction.Id}, nil
}

// Supersede deactivates a contradicted instruction and records its
// replacement as a correction, atomically.
func (s *instructionService) Supersede(ctx context.Context, userId uuid.UUID, req *dto.SupersedeInstructionRequest) (*dto.SupersedeInstructionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	old, err := uow.InstructionRepository().FindOne(ctx,
		specification.ByID{ID: req.OldId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if old == nil {
		return nil, apperror.NotFound("instruction not found")
	}

	category := req.Category
	if category == "" {
		category = old.Category
	} else if !ValidCategory(category) {
		return nil, apperror.InvalidInput(fmt.Sprintf("unknown category %q", category))
	}

	priority := req.Priority
	if priority == 0 {
		priority = old.Priority
	}
	if priority < constant.InstructionPriorityMin || priority > constant.InstructionPriorityMax {
		return nil, apperror.InvalidInput(fmt.Sprintf("priority %d out of range [%d,%d]",
			priority, constant.InstructionPriorityMin, constant.InstructionPriorityMax))
	}

	replacement := entity.Instruction{
		Id:          uuid.New(),
		UserId:      userId,
		Category:    category,
		Instruction: req.Instruction,
		Priority:    priority,
		IsActive:    true,
		Source:      constant.InstructionSourceCorrection,
		Confidence:  1.0,
		Tags:        req.Tags,
		CreatedAt:   time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.InstructionRepository().Deactivate(ctx, old.Id); err != nil {
		return nil, err
	}
	if err := uow.InstructionRepository().Create(ctx, &replacement); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.blockCache.Invalidate(ctx, userId)

	return &dto.SupersedeInstructionResponse{
		OldId: old.Id,
		NewId: replacement.Id,
	}, nil
}

func (s *instructionService) Deactivate(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	instruction, err := uow.InstructionRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if instruction == nil {
		return apperror.NotFound("instruction not found")
	}

	if err := uow.InstructionRepository().Deactivate(ctx, id); err != nil {
		return err
	}

	s.blockCache.Invalidate(ctx, userId)
	return nil
}

func (s *instructionService) RecordApplied(ctx context.Context, instructionId uuid.UUID, appliedAt time.Time) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.InstructionRepository().IncrementApplied(ctx, instructionId, appliedAt)
}

// ValidCategory reports whether the category belongs to the closed enum.
func ValidCategory(category string) bool {
	_, ok := constant.CategoryLabels[category]
	return ok
}

func validSource(source string) bool {
	switch source {
	case constant.InstructionSourceExplicit,
		constant.InstructionSourceInferred,
		constant.InstructionSourceCorrection,
		constant.InstructionSourcePreference,
		constant.InstructionSourcePattern:
		return true
	}
	return false
}

// RenderInstructionBlock formats active instructions into the prompt
// block. Groups follow the fixed editorial category order regardless of
// input order; within a group, highest priority first with newer entries
// breaking ties. Zero instructions render as the empty string so callers
// never inject an empty wrapper into the generation prompt.
func RenderInstructionBlock(instructions []*entity.Instruction) string {
	if len(instructions) == 0 {
		return ""
	}

	grouped := make(map[string][]*entity.Instruction, len(constant.CategoryOrder))
	for _, ins := range instructions {
		category := ins.Category
		if _, known := constant.CategoryLabels[category]; !known {
			category = constant.CategoryOther
		}
		grouped[category] = append(grouped[category], ins)
	}

	var b strings.Builder
	b.WriteString(constant.ContextBlockHeader)
	b.WriteString("\n")

	for _, category := range constant.CategoryOrder {
		group := grouped[category]
		if len(group) == 0 {
			continue
		}

		sort.SliceStable(group, func(i, j int) bool {
			if group[i].Priority != group[j].Priority {
				return group[i].Priority > group[j].Priority
			}
			return group[i].CreatedAt.After(group[j].CreatedAt)
		})

		b.WriteString("\n### ")
		b.WriteString(constant.CategoryLabels[category])
		b.WriteString("\n")
		for _, ins := range group {
			b.WriteString("- ")
			if ins.Priority >= constant.InstructionPriorityHighlight {
				b.WriteString(constant.ContextImportantLabel)
				b.WriteString(" ")
			}
			b.WriteString(ins.Instruction)
			b.WriteString("\n")
		}
	}

	return b.String()
}

func toInstructionResponse(ins *entity.Instruction) *dto.InstructionResponse {
	return &dto.InstructionResponse{
		Id:           ins.Id,
		Category:     ins.Category,
		Instruction:  ins.Instruction,
		Priority:     ins.Priority,
		IsActive:     ins.IsActive,
		Source:       ins.Source,
		Confidence:   ins.Confidence,
		Tags:         ins.Tags,
		AppliedCount: ins.AppliedCount,
		LastApplied:  ins.LastApplied,
		CreatedAt:    ins.CreatedAt,
	}
}
