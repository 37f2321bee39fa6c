package scan

// ExampleTopic and ExampleText are the bundled demonstration input: on-topic
// astronomy sentences mixed with absurd, repetitive and random ones.
const ExampleTopic = "L'étude des étoiles, des planètes et de l'univers"

const ExampleText = `Le système solaire est composé de huit planètes orbitant autour du Soleil.
La gravité maintient la cohésion des corps célestes dans la galaxie.
Les pommes de terre cuites chantent du jazz dans la rivière quantique du temps.
L'astrophysique étudie les propriétés physiques des objets célestes.
Le système est le système est le système est le système.
La nucléosynthèse stellaire produit des éléments lourds comme le carbone.
Xyz kjhdf kjhsdfkuy sdkjfh skdjfh kjsdfh gfdg.`
