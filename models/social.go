package models

// Follower is one directional edge: UserID follows FollowedID.
type Follower struct {
	ID         string `json:"id" bson:"uuid"`
	UserID     string `json:"userid" bson:"userid"`
	FollowedID string `json:"followedid" bson:"followedid"`
}

// Notification is written once by fan-out and mutated only to flip Seen.
// Sensitive marks removals/deletions for visual flagging on the client.
type Notification struct {
	ID        string `json:"id" bson:"uuid"`
	FromID    string `json:"fromid" bson:"fromid"`
	ToID      string `json:"toid" bson:"toid"`
	EventID   string `json:"eventid,omitempty" bson:"eventid,omitempty"`
	Text      string `json:"text" bson:"text"`
	Timestamp int64  `json:"timestamp" bson:"timestamp"`
	Seen      bool   `json:"seen" bson:"seen"`
	Sensitive bool   `json:"sensitive" bson:"sensitive"`
}

type Review struct {
	ID         string `json:"id" bson:"uuid"`
	WriterID   string `json:"writerid" bson:"writerid"`
	EventID    string `json:"eventid" bson:"eventid"`
	ReviewedID string `json:"reviewedid" bson:"reviewedid"`
	Text       string `json:"text" bson:"text"`
	CreatedAt  int64  `json:"created_at" bson:"created_at"`
}
