package matcher

// synonymTable 도메인 동의어 사전 (한국어-한국어, 한국어-영어).
// 키와 값 목록이 하나의 동의어 군을 이룬다.
var synonymTable = map[string][]string{
	// 이름 관련
	"이름":   {"성명", "name", "성함", "이름"},
	"성명":   {"이름", "name", "성함"},
	"name": {"이름", "성명", "성함"},

	// 나이 관련
	"나이":  {"연령", "age", "연세"},
	"연령":  {"나이", "age", "연세"},
	"age": {"나이", "연령", "연세"},

	// 부서 관련
	"부서":         {"부서명", "department", "소속", "소속부서", "팀"},
	"부서명":        {"부서", "department", "소속", "소속부서"},
	"department": {"부서", "부서명", "소속", "소속부서"},
	"소속부서":       {"부서", "부서명", "department"},

	// 날짜 관련
	"입사일":       {"입사일자", "hire_date", "hiredate", "입사_일", "채용일"},
	"입사일자":      {"입사일", "hire_date", "hiredate", "입사_일"},
	"hire_date": {"입사일", "입사일자", "채용일"},
	"hiredate":  {"입사일", "입사일자", "채용일"},

	// 급여 관련
	"연봉":     {"급여", "salary", "월급", "연봉정보", "급료"},
	"급여":     {"연봉", "salary", "월급", "급료"},
	"salary": {"연봉", "급여", "월급", "급료"},
	"월급":     {"연봉", "급여", "salary", "급료"},

	// 일반적인 시트명
	"직원정보":          {"employee_info", "employee info", "employees", "사원정보", "직원 정보"},
	"employee_info": {"직원정보", "사원정보", "직원 정보"},
	"employee info": {"직원정보", "사원정보", "직원 정보"},
	"employees":     {"직원정보", "사원정보", "직원 정보", "employee_info"},
}
