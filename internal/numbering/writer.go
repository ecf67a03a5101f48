package numbering

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/JaimeStill/docket/internal/classifications"
	"github.com/JaimeStill/docket/internal/documents"
	"github.com/JaimeStill/docket/pkg/auth"
	"github.com/JaimeStill/docket/pkg/repository"
	"github.com/JaimeStill/docket/pkg/validation"
)

// Assign gives the classification record in cmd a reference number, either the
// literal cmd.ReferenceNumber or the next auto allocation, and appends the
// audit entry. Nothing is written unless every step succeeds.
func (r *repo) Assign(ctx context.Context, actor auth.Actor, cmd AssignCommand) (*Assignment, error) {
	scheme, err := checkAssign(actor, cmd)
	if err != nil {
		return nil, err
	}

	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Assignment, error) {
		return r.assign(ctx, tx, actor, cmd, scheme, r.now())
	})
	if err != nil {
		r.logger.Warn("reference number assignment rolled back",
			"classification_id", cmd.ClassificationID,
			"ref", cmd.Ref(),
			"scheme", scheme,
			"error", err,
		)
		return nil, err
	}

	r.logger.Info("reference number assigned",
		"classification_id", a.ClassificationID,
		"reference_number", a.ReferenceNumber,
		"old_number", a.OldNumber,
		"scheme", a.Scheme,
		"fallback", a.Fallback,
		"actor_id", actor.ID,
	)
	return &a, nil
}

// BulkAssign runs one Assign per item, in order, each in its own transaction.
// A failed item is reported in its result and does not affect the others.
func (r *repo) BulkAssign(ctx context.Context, actor auth.Actor, cmd BulkAssignCommand) (*BulkResult, error) {
	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}
	if len(cmd.Items) > r.opts.BulkLimit {
		return nil, validation.Failed("items", "max", strconv.Itoa(r.opts.BulkLimit))
	}

	result := &BulkResult{Results: make([]BulkItemResult, len(cmd.Items))}

	for i, item := range cmd.Items {
		if item.Reason == "" {
			item.Reason = cmd.Reason
		}
		if item.Scheme == "" && item.ReferenceNumber == "" {
			item.Scheme = cmd.Scheme
		}

		res := BulkItemResult{Index: i, ClassificationID: item.ClassificationID}

		a, err := r.Assign(ctx, actor, item)
		if err != nil {
			res.Error = err.Error()
			res.Kind = Kind(err)
			result.Failed++
		} else {
			res.Assignment = a
			result.Succeeded++
		}

		result.Results[i] = res
	}

	r.logger.Info("bulk assignment completed",
		"items", len(cmd.Items),
		"succeeded", result.Succeeded,
		"failed", result.Failed,
		"actor_id", actor.ID,
	)
	return result, nil
}

func (r *repo) assign(
	ctx context.Context,
	tx *sql.Tx,
	actor auth.Actor,
	cmd AssignCommand,
	scheme Scheme,
	at time.Time,
) (Assignment, error) {
	ref := cmd.Ref()
	stamp := at.UTC()

	if err := classifications.Lock(ctx, tx, cmd.ClassificationID, stamp); err != nil {
		return Assignment{}, err
	}

	current, err := classifications.Find(ctx, tx, cmd.ClassificationID)
	if err != nil {
		return Assignment{}, err
	}
	if current.Ref() != ref {
		return Assignment{}, fmt.Errorf("%w: %s is linked to %s", ErrMismatch, current.ID, current.Ref())
	}
	if !numberable(current.Status) {
		return Assignment{}, fmt.Errorf("%w: %s is %s", classifications.ErrInvalidStatus, current.ID, current.Status)
	}

	number := cmd.ReferenceNumber
	fallback := false
	if scheme == SchemeAuto {
		alloc, err := r.allocate(ctx, tx, ref.Type, at)
		if err != nil {
			return Assignment{}, err
		}
		number, fallback = alloc.number, alloc.fallback
	}

	taken, err := classifications.NumberTaken(ctx, tx, number, current.ID)
	if err != nil {
		return Assignment{}, fmt.Errorf("check reference number: %w", err)
	}
	if taken {
		return Assignment{}, fmt.Errorf("%w: %s", ErrConflict, number)
	}

	old := current.ReferenceNumber

	if err := classifications.SetNumber(ctx, tx, current.ID, number, stamp); err != nil {
		if errors.Is(err, classifications.ErrDuplicate) {
			return Assignment{}, fmt.Errorf("%w: %s", ErrConflict, number)
		}
		return Assignment{}, err
	}

	if err := documents.SetNumber(ctx, tx, ref, number, stamp); err != nil {
		return Assignment{}, err
	}

	entry, err := record(ctx, tx, LogEntry{
		DocumentID:       ref.ID,
		DocumentType:     ref.Type,
		ClassificationID: current.ID,
		OldNumber:        old,
		NewNumber:        number,
		Scheme:           scheme,
		Reason:           cmd.Reason,
		ActorID:          actor.ID,
		ActorRole:        actor.Role,
		CreatedAt:        stamp,
	})
	if err != nil {
		return Assignment{}, err
	}

	return Assignment{
		ClassificationID: current.ID,
		DocumentID:       ref.ID,
		DocumentType:     ref.Type,
		ReferenceNumber:  number,
		OldNumber:        old,
		Scheme:           scheme,
		Fallback:         fallback,
		LogID:            entry.ID,
		AssignedAt:       stamp,
	}, nil
}

// numberable reports whether a record in status s may receive a number.
// Reviewed and approved records are past the numbering stage.
func numberable(s classifications.Status) bool {
	return s == classifications.StatusUnclassified || s == classifications.StatusClassified
}

// checkAssign validates cmd and resolves its effective scheme.
func checkAssign(actor auth.Actor, cmd AssignCommand) (Scheme, error) {
	if actor.ID == "" {
		return "", validation.Failed("actor_id", "required", "")
	}
	if err := validation.Struct(cmd); err != nil {
		return "", err
	}

	switch {
	case cmd.Scheme == SchemeAuto && cmd.ReferenceNumber != "":
		return "", validation.Failed("reference_number", "excluded_with", "scheme auto")
	case cmd.Scheme == SchemeCustom && cmd.ReferenceNumber == "":
		return "", validation.Failed("reference_number", "required", "")
	case cmd.Scheme != "":
		return cmd.Scheme, nil
	case cmd.ReferenceNumber != "":
		return SchemeCustom, nil
	}
	return SchemeAuto, nil
}
