package models

import (
	"strings"
	"time"
)

/************************************************
/**** MARK: KNOWLEDGE TYPES ****/
/************************************************/
const KNOWLEDGE_TYPE_MANUAL = "manual"
const KNOWLEDGE_TYPE_LEARNED = "aprendido_archivo"
const KNOWLEDGE_TYPE_SEEDED = "expandido"

// KnowledgeEntry é uma entrada da base de conhecimento local usada para responder offline.
type KnowledgeEntry struct {
	ID        string    `gorm:"primary_key" json:"id"`
	Subject   string    `gorm:"column:materia;not null;index" json:"materia" form:"materia" yaml:"materia"`
	Topic     string    `gorm:"column:tema;not null" json:"tema" form:"tema" yaml:"tema"`
	Body      string    `gorm:"column:contenido;type:text;not null" json:"contenido" form:"contenido" yaml:"contenido"`
	Grade     string    `gorm:"column:grado;default:''" json:"grado" form:"grado" yaml:"grado"`
	Keywords  string    `gorm:"column:palabras_clave;type:text;default:''" json:"palabras_clave" form:"palabras_clave" yaml:"palabras_clave"`
	CreatedAt time.Time `gorm:"column:fecha_agregado;index" json:"fecha_agregado" yaml:"-"`
	Type      string    `gorm:"column:tipo;not null;default:'manual'" json:"tipo" form:"tipo" yaml:"tipo"`
}

func (KnowledgeEntry) TableName() string {
	return "knowledge_entries"
}

// MissingFields returns the first required field left blank, or "" when the entry is complete.
func (k KnowledgeEntry) MissingFields() string {
	if strings.TrimSpace(k.Subject) == "" {
		return "materia"
	} else if strings.TrimSpace(k.Topic) == "" {
		return "tema"
	} else if strings.TrimSpace(k.Body) == "" {
		return "contenido"
	}
	return ""
}

// KeywordList splits the comma-joined keyword column.
func (k KnowledgeEntry) KeywordList() []string {
	var out []string
	for _, kw := range strings.Split(k.Keywords, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
