package domain

// RequesterContext carries the identity and authorisation facts
// resolved once per request. It is rebuilt by the identity
// collaborator on every call and must not be cached across requests.
type RequesterContext struct {
	// UserID is the stable user identifier.
	UserID string

	// Email is the user's work address.
	Email string

	// DisplayName is the user's full name, used in the prompt profile.
	DisplayName string

	// Role is the free-text job title (e.g. "Engineering Manager").
	Role string

	// Department is the user's department.
	Department string

	// ChannelMemberships is the set of channel IDs the user belongs to.
	ChannelMemberships map[string]bool

	// IsLeadership marks members of the leadership team.
	IsLeadership bool

	// IsManager marks people managers.
	IsManager bool
}

// IsMemberOf reports whether the requester belongs to a channel.
func (r *RequesterContext) IsMemberOf(channelID string) bool {
	if r == nil || r.ChannelMemberships == nil {
		return false
	}
	return r.ChannelMemberships[channelID]
}

// Channels returns the channel memberships as a slice.
func (r *RequesterContext) Channels() []string {
	if r == nil {
		return nil
	}
	channels := make([]string, 0, len(r.ChannelMemberships))
	for id, member := range r.ChannelMemberships {
		if member {
			channels = append(channels, id)
		}
	}
	return channels
}

// PermissionScope is derived from a RequesterContext on every
// retrieval. It is never persisted.
type PermissionScope struct {
	CanAccessOwnData        bool
	CanAccessChannels       map[string]bool
	CanAccessTeamArtifacts  bool
	CanAccessDepartmentData bool
	CanAccessOrgInsights    bool

	// Hard denials. These are always true and cannot be relaxed.
	ExcludeOthersPrivateMail    bool
	ExcludeOthersDirectMessages bool
	ExcludeOthersPersonalData   bool
}

// DelegatedToken is an external access token together with the user it
// was issued to. It only ever unlocks that user's own calendar and mail.
type DelegatedToken struct {
	OwnerID string
	Token   string
}

// For returns the token when requesterID is its owner and "" otherwise,
// so sync skips calendar and mail for everyone else.
func (t DelegatedToken) For(requesterID string) string {
	if t.Token == "" || t.OwnerID == "" || requesterID != t.OwnerID {
		return ""
	}
	return t.Token
}
