package service

import (
	"context"
	"testing"

	"waypoint/internal/models"
)

func TestStopServiceCreateStopViewerForbidden(t *testing.T) {
	svc := NewStopService(noopGroupRepo().memberOf(models.GroupRoleViewer), noopStopRepo())
	_, err := svc.CreateStop(context.Background(), StopInput{
		UserID: 10, GroupID: 1, Title: "Museum",
	})
	wantCode(t, err, models.CodeForbidden)
}

func TestStopServiceCreateStopTitleRequired(t *testing.T) {
	svc := NewStopService(noopGroupRepo().memberOf(models.GroupRoleMember), noopStopRepo())
	_, err := svc.CreateStop(context.Background(), StopInput{UserID: 10, GroupID: 1, Title: "  "})
	wantCode(t, err, models.CodeValidation)
}

func TestStopServiceUpdateStopOwnerOnly(t *testing.T) {
	stopRepo := noopStopRepo()
	stopRepo.getByIDFn = func(ctx context.Context, id uint) (*models.Stop, error) {
		return &models.Stop{ID: id, GroupID: 1, CreatorID: 20, Title: "Museum"}, nil
	}

	// A member cannot edit someone else's stop.
	svc := NewStopService(noopGroupRepo().memberOf(models.GroupRoleMember), stopRepo)
	_, err := svc.UpdateStop(context.Background(), 5, StopInput{UserID: 10, GroupID: 1, Title: "Gallery"})
	wantCode(t, err, models.CodeForbidden)

	// An admin can.
	svc = NewStopService(noopGroupRepo().memberOf(models.GroupRoleAdmin), stopRepo)
	stop, err := svc.UpdateStop(context.Background(), 5, StopInput{UserID: 10, GroupID: 1, Title: "Gallery"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stop.Title != "Gallery" {
		t.Fatalf("expected title update, got %q", stop.Title)
	}
}

func TestStopServiceDeleteStopCrossGroup(t *testing.T) {
	stopRepo := noopStopRepo()
	stopRepo.getByIDFn = func(ctx context.Context, id uint) (*models.Stop, error) {
		return &models.Stop{ID: id, GroupID: 999, CreatorID: 10}, nil
	}
	svc := NewStopService(noopGroupRepo().memberOf(models.GroupRoleAdmin), stopRepo)

	err := svc.DeleteStop(context.Background(), 1, 5, 10)
	wantCode(t, err, models.CodeNotFound)
}

func TestStopServiceListStopsNonMember(t *testing.T) {
	svc := NewStopService(noopGroupRepo(), noopStopRepo())
	_, err := svc.ListStops(context.Background(), 1, 10)
	wantCode(t, err, models.CodeForbidden)
}
