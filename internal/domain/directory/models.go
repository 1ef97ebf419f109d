package directory

// Wire field names (DepartmentId, EmployeeName, ...) are a compatibility
// contract with existing clients and must not be renamed.

type Department struct {
	ID   int64  `json:"DepartmentId"`
	Name string `json:"DepartmentName"`
}

type Employee struct {
	ID            int64      `json:"EmployeeId"`
	Name          string     `json:"EmployeeName"`
	Designation   string     `json:"Designation"`
	DateOfJoining string     `json:"DateOfJoining"`
	Contact       string     `json:"Contact"`
	IsActive      bool       `json:"IsActive"`
	DepartmentID  int64      `json:"DepartmentId"`
	Department    Department `json:"Department"`
}

// EmployeePatch distinguishes absent fields from zero values so partial
// updates leave omitted fields untouched.
type EmployeePatch struct {
	Name          *string `json:"EmployeeName"`
	Designation   *string `json:"Designation"`
	DateOfJoining *string `json:"DateOfJoining"`
	Contact       *string `json:"Contact"`
	IsActive      *bool   `json:"IsActive"`
	DepartmentID  *int64  `json:"DepartmentId"`
}

func (p EmployeePatch) Empty() bool {
	return p.Name == nil && p.Designation == nil && p.DateOfJoining == nil &&
		p.Contact == nil && p.IsActive == nil && p.DepartmentID == nil
}
