package model

// Class 教学班级，考试归属于班级
type Class struct {
	BaseModel
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	TeacherID   uint   `gorm:"index;not null" json:"teacherId"`
}

func (Class) TableName() string {
	return "classes"
}

// ClassMember 学生选课关系
type ClassMember struct {
	BaseModel
	ClassID   uint `gorm:"uniqueIndex:uk_class_member;not null" json:"classId"`
	StudentID uint `gorm:"uniqueIndex:uk_class_member;index;not null" json:"studentId"`
}

func (ClassMember) TableName() string {
	return "class_members"
}
