package chatlog

// Contact is one entry of the chat-log service's contact index. UserName is
// the stable identifier used in lookups; the other fields are display sugar.
type Contact struct {
	UserName string `json:"userName"`
	NickName string `json:"nickName,omitempty"`
	Remark   string `json:"remark,omitempty"`
}

// DisplayName resolves the label shown in the contact list: the user-set
// remark wins over the contact's own nickname, which wins over the raw id.
func (c Contact) DisplayName() string {
	if c.Remark != "" {
		return c.Remark
	}
	if c.NickName != "" {
		return c.NickName
	}
	return c.UserName
}
