// Package api contains the protobuf command messages exchanged over the
// wire. It is hand-maintained here in place of the protoc-generated file
// it stands in for, but follows the same generated-code shape (pointer
// fields, Get* accessors that tolerate nil receivers, Enum() helpers on
// enum types) so the rest of the client can use it exactly like a real
// protoc-gen-go output.
package api

import (
	"fmt"

	"github.com/golang/protobuf/proto"
)

// BaseCommand_Type enumerates every command type carried in a frame's
// required BaseCommand.Type field.
type BaseCommand_Type int32

const (
	BaseCommand_CONNECT                         BaseCommand_Type = 2
	BaseCommand_CONNECTED                       BaseCommand_Type = 3
	BaseCommand_SUBSCRIBE                       BaseCommand_Type = 4
	BaseCommand_PRODUCER                        BaseCommand_Type = 5
	BaseCommand_SEND                            BaseCommand_Type = 6
	BaseCommand_SEND_RECEIPT                    BaseCommand_Type = 7
	BaseCommand_SEND_ERROR                      BaseCommand_Type = 8
	BaseCommand_MESSAGE                         BaseCommand_Type = 9
	BaseCommand_ACK                              BaseCommand_Type = 10
	BaseCommand_FLOW                            BaseCommand_Type = 11
	BaseCommand_UNSUBSCRIBE                     BaseCommand_Type = 12
	BaseCommand_SUCCESS                         BaseCommand_Type = 13
	BaseCommand_ERROR                           BaseCommand_Type = 14
	BaseCommand_CLOSE_PRODUCER                  BaseCommand_Type = 15
	BaseCommand_CLOSE_CONSUMER                  BaseCommand_Type = 16
	BaseCommand_PRODUCER_SUCCESS                BaseCommand_Type = 17
	BaseCommand_PING                             BaseCommand_Type = 18
	BaseCommand_PONG                             BaseCommand_Type = 19
	BaseCommand_REDELIVER_UNACKNOWLEDGED_MESSAGES BaseCommand_Type = 20
	BaseCommand_LOOKUP                          BaseCommand_Type = 21
	BaseCommand_LOOKUP_RESPONSE                 BaseCommand_Type = 22
)

var baseCommandTypeName = map[BaseCommand_Type]string{
	BaseCommand_CONNECT:                           "CONNECT",
	BaseCommand_CONNECTED:                         "CONNECTED",
	BaseCommand_SUBSCRIBE:                         "SUBSCRIBE",
	BaseCommand_PRODUCER:                          "PRODUCER",
	BaseCommand_SEND:                              "SEND",
	BaseCommand_SEND_RECEIPT:                      "SEND_RECEIPT",
	BaseCommand_SEND_ERROR:                        "SEND_ERROR",
	BaseCommand_MESSAGE:                           "MESSAGE",
	BaseCommand_ACK:                               "ACK",
	BaseCommand_FLOW:                              "FLOW",
	BaseCommand_UNSUBSCRIBE:                       "UNSUBSCRIBE",
	BaseCommand_SUCCESS:                           "SUCCESS",
	BaseCommand_ERROR:                             "ERROR",
	BaseCommand_CLOSE_PRODUCER:                    "CLOSE_PRODUCER",
	BaseCommand_CLOSE_CONSUMER:                    "CLOSE_CONSUMER",
	BaseCommand_PRODUCER_SUCCESS:                  "PRODUCER_SUCCESS",
	BaseCommand_PING:                              "PING",
	BaseCommand_PONG:                              "PONG",
	BaseCommand_REDELIVER_UNACKNOWLEDGED_MESSAGES: "REDELIVER_UNACKNOWLEDGED_MESSAGES",
	BaseCommand_LOOKUP:                            "LOOKUP",
	BaseCommand_LOOKUP_RESPONSE:                   "LOOKUP_RESPONSE",
}

func (t BaseCommand_Type) String() string {
	if name, ok := baseCommandTypeName[t]; ok {
		return name
	}
	return fmt.Sprintf("BaseCommand_Type(%d)", int32(t))
}

// Enum returns a pointer to a copy of t, matching the generated-code
// convention for setting optional enum fields.
func (t BaseCommand_Type) Enum() *BaseCommand_Type {
	v := t
	return &v
}

// AuthMethod enumerates the authentication schemes the CONNECT handshake
// can advertise. Only the no-op method is implemented; real credential
// schemes are an external collaborator (see Non-goals).
type AuthMethod int32

const (
	AuthMethod_AuthMethodNone AuthMethod = 0
)

func (m AuthMethod) Enum() *AuthMethod {
	v := m
	return &v
}

// CompressionType enumerates the payload compression schemes a producer
// may declare. Only NONE is implemented.
type CompressionType int32

const (
	CompressionType_NONE CompressionType = 0
)

func (c CompressionType) Enum() *CompressionType {
	v := c
	return &v
}

// ProtocolVersion is the wire protocol version this client speaks.
type ProtocolVersion int32

const (
	ProtocolVersion_v12 ProtocolVersion = 12
)

// ServerError enumerates the error codes a broker can report in a
// CommandError/CommandSendError.
type ServerError int32

const (
	ServerError_UnknownError          ServerError = 0
	ServerError_MetadataError         ServerError = 1
	ServerError_PersistenceError      ServerError = 2
	ServerError_AuthenticationError   ServerError = 3
	ServerError_AuthorizationError    ServerError = 4
	ServerError_ConsumerBusy          ServerError = 5
	ServerError_ServiceNotReady       ServerError = 6
	ServerError_ProducerBlockedQuotaExceededError ServerError = 7
	ServerError_TopicNotFound         ServerError = 8
)

var serverErrorName = map[ServerError]string{
	ServerError_UnknownError:                      "UnknownError",
	ServerError_MetadataError:                      "MetadataError",
	ServerError_PersistenceError:                   "PersistenceError",
	ServerError_AuthenticationError:                "AuthenticationError",
	ServerError_AuthorizationError:                 "AuthorizationError",
	ServerError_ConsumerBusy:                       "ConsumerBusy",
	ServerError_ServiceNotReady:                    "ServiceNotReady",
	ServerError_ProducerBlockedQuotaExceededError:  "ProducerBlockedQuotaExceededError",
	ServerError_TopicNotFound:                       "TopicNotFound",
}

func (e ServerError) String() string {
	if name, ok := serverErrorName[e]; ok {
		return name
	}
	return fmt.Sprintf("ServerError(%d)", int32(e))
}

func (e ServerError) Enum() *ServerError {
	v := e
	return &v
}

// SubType enumerates the subscription modes a SUBSCRIBE command can
// request.
type SubType int32

const (
	SubType_Exclusive SubType = 0
	SubType_Shared     SubType = 1
	SubType_Failover   SubType = 2
)

func (s SubType) Enum() *SubType {
	v := s
	return &v
}

// BaseCommand is the required envelope of every frame. Exactly one of the
// command-specific fields below is populated, selected by Type.
type BaseCommand struct {
	Type *BaseCommand_Type `protobuf:"varint,1,req,name=type,enum=api.BaseCommand_Type" json:"type,omitempty"`

	Connect       *CommandConnect       `protobuf:"bytes,2,opt,name=connect" json:"connect,omitempty"`
	Connected     *CommandConnected     `protobuf:"bytes,3,opt,name=connected" json:"connected,omitempty"`
	Subscribe     *CommandSubscribe     `protobuf:"bytes,4,opt,name=subscribe" json:"subscribe,omitempty"`
	Producer        *CommandProducer        `protobuf:"bytes,18,opt,name=producer" json:"producer,omitempty"`
	ProducerSuccess *CommandProducerSuccess `protobuf:"bytes,19,opt,name=producer_success" json:"producer_success,omitempty"`
	Unsubscribe   *CommandUnsubscribe   `protobuf:"bytes,5,opt,name=unsubscribe" json:"unsubscribe,omitempty"`
	Flow          *CommandFlow          `protobuf:"bytes,6,opt,name=flow" json:"flow,omitempty"`
	Message       *CommandMessage       `protobuf:"bytes,7,opt,name=message" json:"message,omitempty"`
	Send          *CommandSend          `protobuf:"bytes,8,opt,name=send" json:"send,omitempty"`
	SendReceipt   *CommandSendReceipt   `protobuf:"bytes,9,opt,name=send_receipt" json:"send_receipt,omitempty"`
	SendError     *CommandSendError     `protobuf:"bytes,10,opt,name=send_error" json:"send_error,omitempty"`
	Success       *CommandSuccess       `protobuf:"bytes,11,opt,name=success" json:"success,omitempty"`
	Error         *CommandError         `protobuf:"bytes,12,opt,name=error" json:"error,omitempty"`
	CloseProducer *CommandCloseProducer `protobuf:"bytes,13,opt,name=close_producer" json:"close_producer,omitempty"`
	CloseConsumer *CommandCloseConsumer `protobuf:"bytes,14,opt,name=close_consumer" json:"close_consumer,omitempty"`
	Ping          *CommandPing          `protobuf:"bytes,15,opt,name=ping" json:"ping,omitempty"`
	Pong          *CommandPong          `protobuf:"bytes,16,opt,name=pong" json:"pong,omitempty"`
	RedeliverUnacknowledgedMessages *CommandRedeliverUnacknowledgedMessages `protobuf:"bytes,17,opt,name=redeliver_unacknowledged_messages" json:"redeliver_unacknowledged_messages,omitempty"`
}

func (m *BaseCommand) Reset()         { *m = BaseCommand{} }
func (m *BaseCommand) String() string { return proto.CompactTextString(m) }
func (*BaseCommand) ProtoMessage()    {}

func (m *BaseCommand) GetType() BaseCommand_Type {
	if m != nil && m.Type != nil {
		return *m.Type
	}
	return BaseCommand_Type(0)
}

func (m *BaseCommand) GetConnect() *CommandConnect { if m != nil { return m.Connect }; return nil }
func (m *BaseCommand) GetConnected() *CommandConnected { if m != nil { return m.Connected }; return nil }
func (m *BaseCommand) GetSubscribe() *CommandSubscribe { if m != nil { return m.Subscribe }; return nil }
func (m *BaseCommand) GetProducer() *CommandProducer { if m != nil { return m.Producer }; return nil }
func (m *BaseCommand) GetProducerSuccess() *CommandProducerSuccess { if m != nil { return m.ProducerSuccess }; return nil }
func (m *BaseCommand) GetUnsubscribe() *CommandUnsubscribe { if m != nil { return m.Unsubscribe }; return nil }
func (m *BaseCommand) GetFlow() *CommandFlow { if m != nil { return m.Flow }; return nil }
func (m *BaseCommand) GetMessage() *CommandMessage { if m != nil { return m.Message }; return nil }
func (m *BaseCommand) GetSend() *CommandSend { if m != nil { return m.Send }; return nil }
func (m *BaseCommand) GetSendReceipt() *CommandSendReceipt { if m != nil { return m.SendReceipt }; return nil }
func (m *BaseCommand) GetSendError() *CommandSendError { if m != nil { return m.SendError }; return nil }
func (m *BaseCommand) GetSuccess() *CommandSuccess { if m != nil { return m.Success }; return nil }
func (m *BaseCommand) GetError() *CommandError { if m != nil { return m.Error }; return nil }
func (m *BaseCommand) GetCloseProducer() *CommandCloseProducer { if m != nil { return m.CloseProducer }; return nil }
func (m *BaseCommand) GetCloseConsumer() *CommandCloseConsumer { if m != nil { return m.CloseConsumer }; return nil }
func (m *BaseCommand) GetPing() *CommandPing { if m != nil { return m.Ping }; return nil }
func (m *BaseCommand) GetPong() *CommandPong { if m != nil { return m.Pong }; return nil }
func (m *BaseCommand) GetRedeliverUnacknowledgedMessages() *CommandRedeliverUnacknowledgedMessages {
	if m != nil {
		return m.RedeliverUnacknowledgedMessages
	}
	return nil
}

// CommandConnect initiates a session.
type CommandConnect struct {
	ClientVersion    *string     `protobuf:"bytes,1,req,name=client_version" json:"client_version,omitempty"`
	AuthMethod       *AuthMethod `protobuf:"varint,6,opt,name=auth_method,enum=api.AuthMethod" json:"auth_method,omitempty"`
	AuthMethodName   *string  `protobuf:"bytes,2,opt,name=auth_method_name" json:"auth_method_name,omitempty"`
	AuthData         []byte   `protobuf:"bytes,3,opt,name=auth_data" json:"auth_data,omitempty"`
	ProtocolVersion  *int32   `protobuf:"varint,4,opt,name=protocol_version,def=0" json:"protocol_version,omitempty"`
	ProxyToBrokerUrl *string  `protobuf:"bytes,5,opt,name=proxy_to_broker_url" json:"proxy_to_broker_url,omitempty"`
}

func (m *CommandConnect) Reset()         { *m = CommandConnect{} }
func (m *CommandConnect) String() string { return proto.CompactTextString(m) }
func (*CommandConnect) ProtoMessage()    {}

// CommandConnected is the broker's reply to a successful CONNECT.
type CommandConnected struct {
	ServerVersion   *string `protobuf:"bytes,1,req,name=server_version" json:"server_version,omitempty"`
	ProtocolVersion *int32  `protobuf:"varint,2,opt,name=protocol_version,def=0" json:"protocol_version,omitempty"`
}

func (m *CommandConnected) Reset()         { *m = CommandConnected{} }
func (m *CommandConnected) String() string { return proto.CompactTextString(m) }
func (*CommandConnected) ProtoMessage()    {}

func (m *CommandConnected) GetProtocolVersion() int32 {
	if m != nil && m.ProtocolVersion != nil {
		return *m.ProtocolVersion
	}
	return 0
}

func (m *CommandConnected) GetServerVersion() string {
	if m != nil && m.ServerVersion != nil {
		return *m.ServerVersion
	}
	return ""
}

// CommandSubscribe registers interest in a topic on behalf of a
// subscription created by core/sub.
type CommandSubscribe struct {
	Topic        *string  `protobuf:"bytes,1,req,name=topic" json:"topic,omitempty"`
	Subscription *string  `protobuf:"bytes,2,req,name=subscription" json:"subscription,omitempty"`
	SubType      *SubType `protobuf:"varint,3,req,name=sub_type,enum=api.SubType" json:"sub_type,omitempty"`
	ConsumerId   *uint64  `protobuf:"varint,4,req,name=consumer_id" json:"consumer_id,omitempty"`
	RequestId    *uint64  `protobuf:"varint,5,req,name=request_id" json:"request_id,omitempty"`
	Durable      *bool    `protobuf:"varint,6,opt,name=durable" json:"durable,omitempty"`
}

func (m *CommandSubscribe) Reset()         { *m = CommandSubscribe{} }
func (m *CommandSubscribe) String() string { return proto.CompactTextString(m) }
func (*CommandSubscribe) ProtoMessage()    {}

// CommandProducer registers a producer for a topic.
type CommandProducer struct {
	Topic        *string `protobuf:"bytes,1,req,name=topic" json:"topic,omitempty"`
	ProducerId   *uint64 `protobuf:"varint,2,req,name=producer_id" json:"producer_id,omitempty"`
	RequestId    *uint64 `protobuf:"varint,3,req,name=request_id" json:"request_id,omitempty"`
	ProducerName *string `protobuf:"bytes,4,opt,name=producer_name" json:"producer_name,omitempty"`
}

func (m *CommandProducer) Reset()         { *m = CommandProducer{} }
func (m *CommandProducer) String() string { return proto.CompactTextString(m) }
func (*CommandProducer) ProtoMessage()    {}

// CommandProducerSuccess is the broker's reply to a successful PRODUCER.
type CommandProducerSuccess struct {
	RequestId    *uint64 `protobuf:"varint,1,req,name=request_id" json:"request_id,omitempty"`
	ProducerName *string `protobuf:"bytes,2,req,name=producer_name" json:"producer_name,omitempty"`
}

func (m *CommandProducerSuccess) Reset()         { *m = CommandProducerSuccess{} }
func (m *CommandProducerSuccess) String() string { return proto.CompactTextString(m) }
func (*CommandProducerSuccess) ProtoMessage()    {}

func (m *CommandProducerSuccess) GetProducerName() string {
	if m != nil && m.ProducerName != nil {
		return *m.ProducerName
	}
	return ""
}

// CommandUnsubscribe removes interest in a topic. Max (if > 0, carried via
// the connection's unsubscribe-with-limit path) is encoded client-side and
// is not itself part of the wire message in this protocol; the broker only
// ever sees a full unsubscribe.
type CommandUnsubscribe struct {
	ConsumerId *uint64 `protobuf:"varint,1,req,name=consumer_id" json:"consumer_id,omitempty"`
	RequestId  *uint64 `protobuf:"varint,2,req,name=request_id" json:"request_id,omitempty"`
}

func (m *CommandUnsubscribe) Reset()         { *m = CommandUnsubscribe{} }
func (m *CommandUnsubscribe) String() string { return proto.CompactTextString(m) }
func (*CommandUnsubscribe) ProtoMessage()    {}

// CommandFlow grants the broker permission to push additional messages.
type CommandFlow struct {
	ConsumerId     *uint64 `protobuf:"varint,1,req,name=consumer_id" json:"consumer_id,omitempty"`
	MessagePermits *uint32 `protobuf:"varint,2,req,name=messagePermits" json:"messagePermits,omitempty"`
}

func (m *CommandFlow) Reset()         { *m = CommandFlow{} }
func (m *CommandFlow) String() string { return proto.CompactTextString(m) }
func (*CommandFlow) ProtoMessage()    {}

// CommandMessage is the envelope accompanying a MESSAGE frame's
// metadata+payload section.
type CommandMessage struct {
	ConsumerId *uint64      `protobuf:"varint,1,req,name=consumer_id" json:"consumer_id,omitempty"`
	MessageId  *MessageIdData `protobuf:"bytes,2,req,name=message_id" json:"message_id,omitempty"`
	RedeliveryCount *uint32 `protobuf:"varint,3,opt,name=redelivery_count,def=0" json:"redelivery_count,omitempty"`
}

func (m *CommandMessage) Reset()         { *m = CommandMessage{} }
func (m *CommandMessage) String() string { return proto.CompactTextString(m) }
func (*CommandMessage) ProtoMessage()    {}

func (m *CommandMessage) GetMessageId() *MessageIdData {
	if m != nil {
		return m.MessageId
	}
	return nil
}

func (m *CommandMessage) GetRedeliveryCount() uint32 {
	if m != nil && m.RedeliveryCount != nil {
		return *m.RedeliveryCount
	}
	return 0
}

// MessageIdData identifies a message's position in its topic's log.
type MessageIdData struct {
	LedgerId *uint64 `protobuf:"varint,1,req,name=ledgerId" json:"ledgerId,omitempty"`
	EntryId  *uint64 `protobuf:"varint,2,req,name=entryId" json:"entryId,omitempty"`
}

func (m *MessageIdData) Reset()         { *m = MessageIdData{} }
func (m *MessageIdData) String() string { return proto.CompactTextString(m) }
func (*MessageIdData) ProtoMessage()    {}

// CommandSend is the producer's publish request.
type CommandSend struct {
	ProducerId  *uint64 `protobuf:"varint,1,req,name=producer_id" json:"producer_id,omitempty"`
	SequenceId  *uint64 `protobuf:"varint,2,req,name=sequence_id" json:"sequence_id,omitempty"`
	NumMessages *int32  `protobuf:"varint,3,opt,name=num_messages,def=1" json:"num_messages,omitempty"`
}

func (m *CommandSend) Reset()         { *m = CommandSend{} }
func (m *CommandSend) String() string { return proto.CompactTextString(m) }
func (*CommandSend) ProtoMessage()    {}

// CommandSendReceipt acknowledges a successfully persisted SEND.
type CommandSendReceipt struct {
	ProducerId *uint64        `protobuf:"varint,1,req,name=producer_id" json:"producer_id,omitempty"`
	SequenceId *uint64        `protobuf:"varint,2,req,name=sequence_id" json:"sequence_id,omitempty"`
	MessageId  *MessageIdData `protobuf:"bytes,3,opt,name=message_id" json:"message_id,omitempty"`
}

func (m *CommandSendReceipt) Reset()         { *m = CommandSendReceipt{} }
func (m *CommandSendReceipt) String() string { return proto.CompactTextString(m) }
func (*CommandSendReceipt) ProtoMessage()    {}

// CommandSendError reports that a SEND could not be persisted.
type CommandSendError struct {
	ProducerId *uint64      `protobuf:"varint,1,req,name=producer_id" json:"producer_id,omitempty"`
	SequenceId *uint64      `protobuf:"varint,2,req,name=sequence_id" json:"sequence_id,omitempty"`
	Error      *ServerError `protobuf:"varint,3,req,name=error,enum=api.ServerError" json:"error,omitempty"`
	Message    *string      `protobuf:"bytes,4,req,name=message" json:"message,omitempty"`
}

func (m *CommandSendError) Reset()         { *m = CommandSendError{} }
func (m *CommandSendError) String() string { return proto.CompactTextString(m) }
func (*CommandSendError) ProtoMessage()    {}

func (m *CommandSendError) GetError() ServerError {
	if m != nil && m.Error != nil {
		return *m.Error
	}
	return ServerError_UnknownError
}

func (m *CommandSendError) GetMessage() string {
	if m != nil && m.Message != nil {
		return *m.Message
	}
	return ""
}

// CommandSuccess is a generic positive reply keyed by request id.
type CommandSuccess struct {
	RequestId *uint64 `protobuf:"varint,1,req,name=request_id" json:"request_id,omitempty"`
}

func (m *CommandSuccess) Reset()         { *m = CommandSuccess{} }
func (m *CommandSuccess) String() string { return proto.CompactTextString(m) }
func (*CommandSuccess) ProtoMessage()    {}

// CommandError is a generic negative reply keyed by request id.
type CommandError struct {
	RequestId *uint64      `protobuf:"varint,1,req,name=request_id" json:"request_id,omitempty"`
	Error     *ServerError `protobuf:"varint,2,req,name=error,enum=api.ServerError" json:"error,omitempty"`
	Message   *string      `protobuf:"bytes,3,req,name=message" json:"message,omitempty"`
}

func (m *CommandError) Reset()         { *m = CommandError{} }
func (m *CommandError) String() string { return proto.CompactTextString(m) }
func (*CommandError) ProtoMessage()    {}

func (m *CommandError) GetError() ServerError {
	if m != nil && m.Error != nil {
		return *m.Error
	}
	return ServerError_UnknownError
}

func (m *CommandError) GetMessage() string {
	if m != nil && m.Message != nil {
		return *m.Message
	}
	return ""
}

// CommandCloseProducer asks (or informs) that a producer be closed.
type CommandCloseProducer struct {
	ProducerId *uint64 `protobuf:"varint,1,req,name=producer_id" json:"producer_id,omitempty"`
	RequestId  *uint64 `protobuf:"varint,2,req,name=request_id" json:"request_id,omitempty"`
}

func (m *CommandCloseProducer) Reset()         { *m = CommandCloseProducer{} }
func (m *CommandCloseProducer) String() string { return proto.CompactTextString(m) }
func (*CommandCloseProducer) ProtoMessage()    {}

func (m *CommandCloseProducer) GetProducerId() uint64 {
	if m != nil && m.ProducerId != nil {
		return *m.ProducerId
	}
	return 0
}

// CommandCloseConsumer asks (or informs) that a consumer be closed.
type CommandCloseConsumer struct {
	ConsumerId *uint64 `protobuf:"varint,1,req,name=consumer_id" json:"consumer_id,omitempty"`
	RequestId  *uint64 `protobuf:"varint,2,req,name=request_id" json:"request_id,omitempty"`
}

func (m *CommandCloseConsumer) Reset()         { *m = CommandCloseConsumer{} }
func (m *CommandCloseConsumer) String() string { return proto.CompactTextString(m) }
func (*CommandCloseConsumer) ProtoMessage()    {}

func (m *CommandCloseConsumer) GetConsumerId() uint64 {
	if m != nil && m.ConsumerId != nil {
		return *m.ConsumerId
	}
	return 0
}

// CommandPing/CommandPong implement the keepalive heartbeat.
type CommandPing struct{}

func (m *CommandPing) Reset()         { *m = CommandPing{} }
func (m *CommandPing) String() string { return proto.CompactTextString(m) }
func (*CommandPing) ProtoMessage()    {}

type CommandPong struct{}

func (m *CommandPong) Reset()         { *m = CommandPong{} }
func (m *CommandPong) String() string { return proto.CompactTextString(m) }
func (*CommandPong) ProtoMessage()    {}

// CommandRedeliverUnacknowledgedMessages asks the broker to redeliver
// everything outstanding on a consumer.
type CommandRedeliverUnacknowledgedMessages struct {
	ConsumerId *uint64 `protobuf:"varint,1,req,name=consumer_id" json:"consumer_id,omitempty"`
}

func (m *CommandRedeliverUnacknowledgedMessages) Reset() {
	*m = CommandRedeliverUnacknowledgedMessages{}
}
func (m *CommandRedeliverUnacknowledgedMessages) String() string { return proto.CompactTextString(m) }
func (*CommandRedeliverUnacknowledgedMessages) ProtoMessage()    {}

// MessageMetadata accompanies a payload in a "payload" frame.
type MessageMetadata struct {
	ProducerName *string           `protobuf:"bytes,1,req,name=producer_name" json:"producer_name,omitempty"`
	SequenceId   *uint64           `protobuf:"varint,2,req,name=sequence_id" json:"sequence_id,omitempty"`
	PublishTime  *uint64           `protobuf:"varint,3,req,name=publish_time" json:"publish_time,omitempty"`
	Compression  *CompressionType  `protobuf:"varint,4,opt,name=compression,enum=api.CompressionType,def=0" json:"compression,omitempty"`
	Properties   map[string]string `protobuf:"bytes,5,rep,name=properties" json:"properties,omitempty"`
}

func (m *MessageMetadata) Reset()         { *m = MessageMetadata{} }
func (m *MessageMetadata) String() string { return proto.CompactTextString(m) }
func (*MessageMetadata) ProtoMessage()    {}

func (m *MessageMetadata) GetProperties() map[string]string {
	if m != nil {
		return m.Properties
	}
	return nil
}
