package service

import (
	"context"

	"waypoint/internal/models"
)

type userRepoStub struct {
	getByIDFn         func(context.Context, uint) (*models.User, error)
	getByUsernameFn   func(context.Context, string) (*models.User, error)
	getByFriendCodeFn func(context.Context, string) (*models.User, error)
	createFn          func(context.Context, *models.User) error
	updateFn          func(context.Context, *models.User) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByFriendCode(ctx context.Context, code string) (*models.User, error) {
	return s.getByFriendCodeFn(ctx, code)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:         func(context.Context, uint) (*models.User, error) { return &models.User{}, nil },
		getByUsernameFn:   func(context.Context, string) (*models.User, error) { return &models.User{}, nil },
		getByFriendCodeFn: func(context.Context, string) (*models.User, error) { return &models.User{}, nil },
		createFn:          func(context.Context, *models.User) error { return nil },
		updateFn:          func(context.Context, *models.User) error { return nil },
	}
}

type groupRepoStub struct {
	createGroupFn       func(context.Context, *models.Group, uint) error
	getGroupFn          func(context.Context, uint) (*models.Group, error)
	updateGroupFn       func(context.Context, *models.Group) error
	deleteGroupFn       func(context.Context, uint) error
	listGroupsForUserFn func(context.Context, uint) ([]models.Group, error)
	getMembershipFn     func(context.Context, uint, uint) (*models.GroupMember, error)
	listMembersFn       func(context.Context, uint) ([]models.GroupMember, error)
	updateMemberRoleFn  func(context.Context, uint, uint, models.GroupRole) error
	deleteMembershipsFn func(context.Context, uint, []uint) error
	countAdminsFn       func(context.Context, uint) (int64, error)
}

func (s *groupRepoStub) CreateGroup(ctx context.Context, group *models.Group, creatorID uint) error {
	return s.createGroupFn(ctx, group, creatorID)
}
func (s *groupRepoStub) GetGroup(ctx context.Context, id uint) (*models.Group, error) {
	return s.getGroupFn(ctx, id)
}
func (s *groupRepoStub) UpdateGroup(ctx context.Context, group *models.Group) error {
	return s.updateGroupFn(ctx, group)
}
func (s *groupRepoStub) DeleteGroup(ctx context.Context, id uint) error {
	return s.deleteGroupFn(ctx, id)
}
func (s *groupRepoStub) ListGroupsForUser(ctx context.Context, userID uint) ([]models.Group, error) {
	return s.listGroupsForUserFn(ctx, userID)
}
func (s *groupRepoStub) GetMembership(ctx context.Context, groupID, userID uint) (*models.GroupMember, error) {
	return s.getMembershipFn(ctx, groupID, userID)
}
func (s *groupRepoStub) ListMembers(ctx context.Context, groupID uint) ([]models.GroupMember, error) {
	return s.listMembersFn(ctx, groupID)
}
func (s *groupRepoStub) UpdateMemberRole(ctx context.Context, groupID, userID uint, role models.GroupRole) error {
	return s.updateMemberRoleFn(ctx, groupID, userID, role)
}
func (s *groupRepoStub) DeleteMemberships(ctx context.Context, groupID uint, userIDs []uint) error {
	return s.deleteMembershipsFn(ctx, groupID, userIDs)
}
func (s *groupRepoStub) CountAdmins(ctx context.Context, groupID uint) (int64, error) {
	return s.countAdminsFn(ctx, groupID)
}

func noopGroupRepo() *groupRepoStub {
	return &groupRepoStub{
		createGroupFn:       func(context.Context, *models.Group, uint) error { return nil },
		getGroupFn:          func(context.Context, uint) (*models.Group, error) { return &models.Group{}, nil },
		updateGroupFn:       func(context.Context, *models.Group) error { return nil },
		deleteGroupFn:       func(context.Context, uint) error { return nil },
		listGroupsForUserFn: func(context.Context, uint) ([]models.Group, error) { return nil, nil },
		getMembershipFn:     func(context.Context, uint, uint) (*models.GroupMember, error) { return nil, nil },
		listMembersFn:       func(context.Context, uint) ([]models.GroupMember, error) { return nil, nil },
		updateMemberRoleFn:  func(context.Context, uint, uint, models.GroupRole) error { return nil },
		deleteMembershipsFn: func(context.Context, uint, []uint) error { return nil },
		countAdminsFn:       func(context.Context, uint) (int64, error) { return 1, nil },
	}
}

// memberOf makes the stub report a fixed role for every membership lookup.
func (s *groupRepoStub) memberOf(role models.GroupRole) *groupRepoStub {
	s.getMembershipFn = func(ctx context.Context, groupID, userID uint) (*models.GroupMember, error) {
		return &models.GroupMember{GroupID: groupID, UserID: userID, Role: role}, nil
	}
	return s
}

type inviteRepoStub struct {
	createFn      func(context.Context, *models.Invite) error
	getByIDFn     func(context.Context, uint) (*models.Invite, error)
	getForUserFn  func(context.Context, uint, uint) (*models.Invite, error)
	listForUserFn func(context.Context, uint) ([]models.Invite, error)
	deleteFn      func(context.Context, uint) error
	acceptFn      func(context.Context, *models.Invite) error
}

func (s *inviteRepoStub) Create(ctx context.Context, invite *models.Invite) error {
	return s.createFn(ctx, invite)
}
func (s *inviteRepoStub) GetByID(ctx context.Context, id uint) (*models.Invite, error) {
	return s.getByIDFn(ctx, id)
}
func (s *inviteRepoStub) GetForUser(ctx context.Context, groupID, invitedID uint) (*models.Invite, error) {
	return s.getForUserFn(ctx, groupID, invitedID)
}
func (s *inviteRepoStub) ListForUser(ctx context.Context, invitedID uint) ([]models.Invite, error) {
	return s.listForUserFn(ctx, invitedID)
}
func (s *inviteRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *inviteRepoStub) Accept(ctx context.Context, invite *models.Invite) error {
	return s.acceptFn(ctx, invite)
}

func noopInviteRepo() *inviteRepoStub {
	return &inviteRepoStub{
		createFn:      func(context.Context, *models.Invite) error { return nil },
		getByIDFn:     func(context.Context, uint) (*models.Invite, error) { return &models.Invite{}, nil },
		getForUserFn:  func(context.Context, uint, uint) (*models.Invite, error) { return nil, nil },
		listForUserFn: func(context.Context, uint) ([]models.Invite, error) { return nil, nil },
		deleteFn:      func(context.Context, uint) error { return nil },
		acceptFn:      func(context.Context, *models.Invite) error { return nil },
	}
}

type friendRepoStub struct {
	createRequestFn func(context.Context, uint, uint) error
	hasEdgeFn       func(context.Context, uint, uint) (bool, error)
	areFriendsFn    func(context.Context, uint, uint) (bool, error)
	deleteEdgesFn   func(context.Context, uint, uint) error
	listFriendsFn   func(context.Context, uint) ([]models.User, error)
	listIncomingFn  func(context.Context, uint) ([]models.FriendRequest, error)
}

func (s *friendRepoStub) CreateRequest(ctx context.Context, requesterID, requestedID uint) error {
	return s.createRequestFn(ctx, requesterID, requestedID)
}
func (s *friendRepoStub) HasEdge(ctx context.Context, requesterID, requestedID uint) (bool, error) {
	return s.hasEdgeFn(ctx, requesterID, requestedID)
}
func (s *friendRepoStub) AreFriends(ctx context.Context, userID1, userID2 uint) (bool, error) {
	return s.areFriendsFn(ctx, userID1, userID2)
}
func (s *friendRepoStub) DeleteEdges(ctx context.Context, userID1, userID2 uint) error {
	return s.deleteEdgesFn(ctx, userID1, userID2)
}
func (s *friendRepoStub) ListFriends(ctx context.Context, userID uint) ([]models.User, error) {
	return s.listFriendsFn(ctx, userID)
}
func (s *friendRepoStub) ListIncoming(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	return s.listIncomingFn(ctx, userID)
}

func noopFriendRepo() *friendRepoStub {
	return &friendRepoStub{
		createRequestFn: func(context.Context, uint, uint) error { return nil },
		hasEdgeFn:       func(context.Context, uint, uint) (bool, error) { return false, nil },
		areFriendsFn:    func(context.Context, uint, uint) (bool, error) { return false, nil },
		deleteEdgesFn:   func(context.Context, uint, uint) error { return nil },
		listFriendsFn:   func(context.Context, uint) ([]models.User, error) { return nil, nil },
		listIncomingFn:  func(context.Context, uint) ([]models.FriendRequest, error) { return nil, nil },
	}
}

type pollRepoStub struct {
	createPollFn     func(context.Context, *models.Poll) error
	getPollFn        func(context.Context, uint) (*models.Poll, error)
	getOptionFn      func(context.Context, uint) (*models.PollOption, error)
	listPollsFn      func(context.Context, uint) ([]models.Poll, error)
	listVoterVotesFn func(context.Context, uint, uint) ([]models.PollVote, error)
	castVoteFn       func(context.Context, uint, uint, uint, bool) (bool, error)
	retractVoteFn    func(context.Context, uint, uint, uint) (bool, error)
}

func (s *pollRepoStub) CreatePoll(ctx context.Context, poll *models.Poll) error {
	return s.createPollFn(ctx, poll)
}
func (s *pollRepoStub) GetPoll(ctx context.Context, id uint) (*models.Poll, error) {
	return s.getPollFn(ctx, id)
}
func (s *pollRepoStub) GetOption(ctx context.Context, optionID uint) (*models.PollOption, error) {
	return s.getOptionFn(ctx, optionID)
}
func (s *pollRepoStub) ListPolls(ctx context.Context, groupID uint) ([]models.Poll, error) {
	return s.listPollsFn(ctx, groupID)
}
func (s *pollRepoStub) ListVoterVotes(ctx context.Context, groupID, voterID uint) ([]models.PollVote, error) {
	return s.listVoterVotesFn(ctx, groupID, voterID)
}
func (s *pollRepoStub) CastVote(ctx context.Context, pollID, optionID, voterID uint, allowMultiple bool) (bool, error) {
	return s.castVoteFn(ctx, pollID, optionID, voterID, allowMultiple)
}
func (s *pollRepoStub) RetractVote(ctx context.Context, pollID, optionID, voterID uint) (bool, error) {
	return s.retractVoteFn(ctx, pollID, optionID, voterID)
}

func noopPollRepo() *pollRepoStub {
	return &pollRepoStub{
		createPollFn:     func(context.Context, *models.Poll) error { return nil },
		getPollFn:        func(context.Context, uint) (*models.Poll, error) { return &models.Poll{}, nil },
		getOptionFn:      func(context.Context, uint) (*models.PollOption, error) { return &models.PollOption{}, nil },
		listPollsFn:      func(context.Context, uint) ([]models.Poll, error) { return nil, nil },
		listVoterVotesFn: func(context.Context, uint, uint) ([]models.PollVote, error) { return nil, nil },
		castVoteFn:       func(context.Context, uint, uint, uint, bool) (bool, error) { return false, nil },
		retractVoteFn:    func(context.Context, uint, uint, uint) (bool, error) { return true, nil },
	}
}

type chatRepoStub struct {
	createMessageFn func(context.Context, *models.Message) error
	listMessagesFn  func(context.Context, uint, int) ([]models.Message, error)
}

func (s *chatRepoStub) CreateMessage(ctx context.Context, message *models.Message) error {
	return s.createMessageFn(ctx, message)
}
func (s *chatRepoStub) ListMessages(ctx context.Context, groupID uint, limit int) ([]models.Message, error) {
	return s.listMessagesFn(ctx, groupID, limit)
}

func noopChatRepo() *chatRepoStub {
	return &chatRepoStub{
		createMessageFn: func(context.Context, *models.Message) error { return nil },
		listMessagesFn:  func(context.Context, uint, int) ([]models.Message, error) { return nil, nil },
	}
}

type stopRepoStub struct {
	createFn       func(context.Context, *models.Stop) error
	getByIDFn      func(context.Context, uint) (*models.Stop, error)
	listForGroupFn func(context.Context, uint) ([]models.Stop, error)
	updateFn       func(context.Context, *models.Stop) error
	deleteFn       func(context.Context, uint) error
	addFileFn      func(context.Context, *models.StopFile) error
	deleteFileFn   func(context.Context, uint) error
}

func (s *stopRepoStub) Create(ctx context.Context, stop *models.Stop) error {
	return s.createFn(ctx, stop)
}
func (s *stopRepoStub) GetByID(ctx context.Context, id uint) (*models.Stop, error) {
	return s.getByIDFn(ctx, id)
}
func (s *stopRepoStub) ListForGroup(ctx context.Context, groupID uint) ([]models.Stop, error) {
	return s.listForGroupFn(ctx, groupID)
}
func (s *stopRepoStub) Update(ctx context.Context, stop *models.Stop) error {
	return s.updateFn(ctx, stop)
}
func (s *stopRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *stopRepoStub) AddFile(ctx context.Context, file *models.StopFile) error {
	return s.addFileFn(ctx, file)
}
func (s *stopRepoStub) DeleteFile(ctx context.Context, id uint) error {
	return s.deleteFileFn(ctx, id)
}

func noopStopRepo() *stopRepoStub {
	return &stopRepoStub{
		createFn:       func(context.Context, *models.Stop) error { return nil },
		getByIDFn:      func(context.Context, uint) (*models.Stop, error) { return &models.Stop{}, nil },
		listForGroupFn: func(context.Context, uint) ([]models.Stop, error) { return nil, nil },
		updateFn:       func(context.Context, *models.Stop) error { return nil },
		deleteFn:       func(context.Context, uint) error { return nil },
		addFileFn:      func(context.Context, *models.StopFile) error { return nil },
		deleteFileFn:   func(context.Context, uint) error { return nil },
	}
}
