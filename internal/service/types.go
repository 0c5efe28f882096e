package service

// Request/response types for every procedure. These cross the wire as JSON;
// monetary amounts are rounded to 2 decimals before they leave a handler.

// UserRef identifies a user in responses.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// --- AuthService ---

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string  `json:"token"`
	User  UserRef `json:"user"`
}

// --- GroupService ---

type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedBy   UserRef   `json:"created_by"`
	CreatedAt   int64     `json:"created_at"`
	Members     []UserRef `json:"members"`
	MemberCount int       `json:"member_count"`
}

type CreateGroupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	MemberIDs   []string `json:"member_ids,omitempty"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GroupResponse struct {
	Group Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []Group `json:"groups"`
}

type AddMemberRequest struct {
	GroupID string `json:"group_id"`
	UserID  string `json:"user_id"`
}

type RemoveMemberRequest struct {
	GroupID string `json:"group_id"`
	UserID  string `json:"user_id"`
}

type Empty struct{}

// --- ExpenseService ---

type ShareInput struct {
	UserID string  `json:"user_id"`
	Amount float64 `json:"amount"`
}

type ShareOutput struct {
	User   UserRef `json:"user"`
	Amount float64 `json:"amount"`
}

type CreateExpenseRequest struct {
	GroupID     string       `json:"group_id"`
	Description string       `json:"description"`
	Amount      float64      `json:"amount"`
	PaidByID    string       `json:"paid_by_id"`
	SplitType   string       `json:"split_type"`
	Shares      []ShareInput `json:"shares,omitempty"` // required for CUSTOM splits
}

type Expense struct {
	ID          string        `json:"id"`
	Description string        `json:"description"`
	Amount      float64       `json:"amount"`
	PaidBy      UserRef       `json:"paid_by"`
	GroupID     string        `json:"group_id"`
	GroupName   string        `json:"group_name"`
	SplitType   string        `json:"split_type"`
	CreatedAt   int64         `json:"created_at"`
	Shares      []ShareOutput `json:"shares"`
}

type ExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type ListExpensesRequest struct {
	GroupID string `json:"group_id"`
}

type ListExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type GroupBalancesRequest struct {
	GroupID string `json:"group_id"`
}

// NetBalance is one member's signed position within a group.
type NetBalance struct {
	User    UserRef `json:"user"`
	Balance float64 `json:"balance"`
}

// Settlement is a proposed payment from a debtor to a creditor.
type Settlement struct {
	From   UserRef `json:"from"`
	To     UserRef `json:"to"`
	Amount float64 `json:"amount"`
}

type GroupBalancesResponse struct {
	NetBalances        []NetBalance `json:"net_balances"`
	SimplifiedBalances []Settlement `json:"simplified_balances"`
}

// --- BalanceService ---

type BalanceSummaryRequest struct{}

type BalanceSummaryResponse struct {
	TotalPaid  float64 `json:"total_paid"`
	TotalShare float64 `json:"total_share"`
	TotalOwed  float64 `json:"total_owed"`
	TotalOwing float64 `json:"total_owing"`
	NetBalance float64 `json:"net_balance"`
}

type MinimumSettlementsRequest struct {
	UserIDs []string `json:"user_ids"`
}

type MinimumSettlementsResponse struct {
	Settlements []Settlement `json:"settlements"`
}

type DashboardRequest struct{}

type DashboardResponse struct {
	BalanceSummary BalanceSummaryResponse `json:"balance_summary"`
	ActiveGroups   int                    `json:"active_groups"`
	TotalExpenses  int                    `json:"total_expenses"`
}

// --- FriendService ---

type SendFriendRequestRequest struct {
	FriendID    string `json:"friend_id,omitempty"`
	FriendEmail string `json:"friend_email,omitempty"`
}

type FriendRequestID struct {
	RequestID string `json:"request_id"`
}

type RemoveFriendRequest struct {
	FriendID string `json:"friend_id"`
}

// FriendEntry describes a friendship from the caller's point of view: User is
// always the other person.
type FriendEntry struct {
	ID        string  `json:"id"`
	User      UserRef `json:"user"`
	Status    string  `json:"status"`
	CreatedAt int64   `json:"created_at"`
}

type FriendResponse struct {
	Friend FriendEntry `json:"friend"`
}

type ListFriendsRequest struct{}

type ListFriendsResponse struct {
	Friends []FriendEntry `json:"friends"`
}
