package server

// MessageType names a websocket message.
type MessageType string

// Client → Server
const (
	MessageTypeAuth        MessageType = "auth"
	MessageTypeListTables  MessageType = "list_tables"
	MessageTypeJoinTable   MessageType = "join_table"
	MessageTypeLeaveTable  MessageType = "leave_table"
	MessageTypeWatchTable  MessageType = "watch_table"
	MessageTypeAdjustStack MessageType = "adjust_stack"
	MessageTypeStartHand   MessageType = "start_hand"
	MessageTypeAct         MessageType = "act"
	MessageTypeGetState    MessageType = "get_state"
)

// Server → Client
const (
	MessageTypeAuthResponse MessageType = "auth_response"
	MessageTypeTableList    MessageType = "table_list"
	MessageTypeState        MessageType = "state"
	MessageTypeTableLeft    MessageType = "table_left"
	MessageTypeError        MessageType = "error"
)

func (mt MessageType) String() string {
	return string(mt)
}
