package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type ConnectionUseCase struct {
	Connections entity.ConnectionRepositoryInterface
	Logger      *zap.Logger
}

func NewConnectionUseCase(conns entity.ConnectionRepositoryInterface, logger *zap.Logger) *ConnectionUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConnectionUseCase{Connections: conns, Logger: logger}
}

func (uc *ConnectionUseCase) Create(ctx context.Context, ownerID string, conn *entity.Connection) (*entity.Connection, error) {
	conn.Base = entity.Base{OwnerID: ownerID}
	if err := validationErr(ValidateConnection(conn)); err != nil {
		return nil, err
	}
	if err := uc.Connections.Create(ctx, conn); err != nil {
		return nil, storeErr("create connection", err)
	}
	uc.Logger.Info("connection created", zap.String("owner_id", ownerID), zap.Int64("connection_id", conn.ID))
	return conn, nil
}

func (uc *ConnectionUseCase) Get(ctx context.Context, ownerID string, id int64) (*entity.Connection, error) {
	conn, err := uc.Connections.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, lookupErr(entity.KindConnection, id, err)
	}
	return conn, nil
}

func (uc *ConnectionUseCase) Update(ctx context.Context, ownerID string, id int64, in *entity.Connection) (*entity.Connection, error) {
	if err := validationErr(ValidateConnection(in)); err != nil {
		return nil, err
	}
	current, err := uc.Connections.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, lookupErr(entity.KindConnection, id, err)
	}
	in.Base = current.Base
	if err := uc.Connections.Update(ctx, in); err != nil {
		return nil, writeErr(entity.KindConnection, id, "update connection", err)
	}
	return in, nil
}

func (uc *ConnectionUseCase) Delete(ctx context.Context, ownerID string, id int64) error {
	if err := uc.Connections.Delete(ctx, ownerID, id); err != nil {
		return writeErr(entity.KindConnection, id, "delete connection", err)
	}
	uc.Logger.Info("connection deleted", zap.String("owner_id", ownerID), zap.Int64("connection_id", id))
	return nil
}

func (uc *ConnectionUseCase) List(ctx context.Context, ownerID string) ([]*entity.Connection, error) {
	conns, err := uc.Connections.List(ctx, ownerID)
	if err != nil {
		return nil, storeErr("list connections", err)
	}
	return conns, nil
}
