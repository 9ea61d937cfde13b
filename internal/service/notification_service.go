package service

import (
	"context"
	"encoding/json"
	"fmt"

	"taptap/internal/models"
	"taptap/internal/repository"
)

type NotificationService struct {
	repo     *repository.NotificationRepository
	userRepo *repository.UserRepository
	fcm      *FCMService
}

func NewNotificationService(repo *repository.NotificationRepository, userRepo *repository.UserRepository, fcm *FCMService) *NotificationService {
	return &NotificationService{repo: repo, userRepo: userRepo, fcm: fcm}
}

func (s *NotificationService) Notify(userID uint, notifType, title, body string, data map[string]interface{}) error {
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	err := s.repo.Create(&models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Data:   dataJSON,
	})
	if err != nil {
		return err
	}
	s.sendPush(userID, notifType, title, body, data)
	return nil
}

func (s *NotificationService) sendPush(userID uint, notifType, title, body string, data map[string]interface{}) {
	if s.fcm == nil || s.userRepo == nil {
		return
	}
	u, err := s.userRepo.GetByID(userID)
	if err != nil || u == nil || u.FCMToken == "" {
		return
	}
	_ = s.fcm.SendToUser(context.Background(), u.FCMToken, notifType, title, body, data)
}

// PingReceived notifies the recipient of a new tap.
func (s *NotificationService) PingReceived(toUserID uint, fromName string, pingID uint) error {
	return s.Notify(toUserID, "PING_RECEIVED", "Someone tapped you", fromName+" tapped you", map[string]interface{}{"ping_id": pingID})
}

// MatchMade notifies one side of a mutual tap. The completing call sends it
// exactly once per side.
func (s *NotificationService) MatchMade(userID uint, otherName string, pingID uint) error {
	return s.Notify(userID, "MATCH", "It's a match", "You and "+otherName+" tapped each other", map[string]interface{}{"ping_id": pingID})
}

// MeetConfirmed notifies a party of their XP award after a confirmed meeting.
func (s *NotificationService) MeetConfirmed(userID uint, otherName string, points int) error {
	return s.Notify(userID, "MEET_CONFIRMED", "Meeting confirmed",
		fmt.Sprintf("You met %s and earned %d XP", otherName, points),
		map[string]interface{}{"points": points})
}

// AutoCheckedOut tells the user they drifted out of range or went idle.
func (s *NotificationService) AutoCheckedOut(userID uint, venueName string) error {
	return s.Notify(userID, "AUTO_CHECKOUT", "Checked out", "You were checked out of "+venueName, nil)
}
