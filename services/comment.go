package services

import (
	"strings"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/baesapp/arcade_api/dto"
	"github.com/baesapp/arcade_api/model"
	"github.com/baesapp/arcade_api/shared"
)

// CommentService manages per-game comments. Authors may edit their own
// comments; deletion is allowed for the author or any admin.
type CommentService struct {
	context.DefaultService

	config *ConfigService
	db     *PostgresService
}

const COMMENT_SVC = "comment_svc"

func (svc CommentService) Id() string {
	return COMMENT_SVC
}

func (svc *CommentService) Start() error {
	svc.config = svc.Service(CONFIG_SVC).(*ConfigService)
	svc.db = svc.Service(POSTGRES_SVC).(*PostgresService)
	return nil
}

func (svc *CommentService) ListComments(gameSlug string) (*dto.CommentListResponse, error) {
	game, err := svc.db.GetGameBySlug(gameSlug)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "game not found")
	}

	comments, err := svc.db.ListComments(game.ID)
	if err != nil {
		return nil, shared.NewInternalError(err, "failed to load comments")
	}

	out := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, toCommentResponse(&comments[i]))
	}
	return &dto.CommentListResponse{Comments: out, Total: len(out)}, nil
}

func (svc *CommentService) CreateComment(gameSlug, walletAddress string, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	game, err := svc.db.GetGameBySlug(gameSlug)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "game not found")
	}

	comment := &model.Comment{
		GameID:        game.ID,
		WalletAddress: strings.ToLower(walletAddress),
		Content:       strings.TrimSpace(req.Content),
	}

	created, err := svc.db.CreateComment(comment)
	if err != nil {
		return nil, shared.NewInternalError(err, "failed to create comment")
	}

	log.WithFields(log.Fields{"game": gameSlug, "author": comment.WalletAddress}).Info("Comment posted")
	resp := toCommentResponse(created)
	return &resp, nil
}

func (svc *CommentService) UpdateComment(commentID, walletAddress string, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	comment, err := svc.db.GetComment(commentID)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "comment not found")
	}

	if !strings.EqualFold(comment.WalletAddress, walletAddress) {
		return nil, shared.NewForbiddenError(nil, "you can only edit your own comments")
	}

	comment.Content = strings.TrimSpace(req.Content)
	comment.IsEdited = true

	updated, err := svc.db.UpdateComment(comment)
	if err != nil {
		return nil, shared.NewInternalError(err, "failed to update comment")
	}

	resp := toCommentResponse(updated)
	return &resp, nil
}

func (svc *CommentService) DeleteComment(commentID, walletAddress string) error {
	comment, err := svc.db.GetComment(commentID)
	if err != nil {
		return shared.NewNotFoundError(err, "comment not found")
	}

	isOwner := strings.EqualFold(comment.WalletAddress, walletAddress)
	if !isOwner && !svc.config.IsAuthorizedAdmin(walletAddress) {
		return shared.NewForbiddenError(nil, "you can only delete your own comments")
	}

	if err := svc.db.DeleteComment(commentID); err != nil {
		return shared.NewInternalError(err, "failed to delete comment")
	}

	log.WithFields(log.Fields{
		"comment": commentID,
		"by":      strings.ToLower(walletAddress),
		"owner":   isOwner,
	}).Info("Comment deleted")
	return nil
}

func toCommentResponse(comment *model.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:            comment.ID,
		GameID:        comment.GameID,
		WalletAddress: comment.WalletAddress,
		Content:       comment.Content,
		IsEdited:      comment.IsEdited,
		CreatedAt:     comment.CreatedAt,
		UpdatedAt:     comment.UpdatedAt,
	}
}
